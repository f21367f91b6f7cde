package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateJobReviewed = "job_reviewed"
	TemplateCTVVerified = "ctv_verified"
	TemplateJobOverdue  = "job_overdue"
)

const layout = `<!DOCTYPE html><html><body style="font-family:sans-serif">
<p>Hi {{.name}},</p>
%s
<p style="color:#888">This is an automated message, please do not reply.</p>
</body></html>`

var builtinTemplates = map[string]string{
	TemplateJobReviewed: fmt.Sprintf(layout, `<p>Your submission for <b>{{.job_title}}</b> was reviewed: <b>{{.decision}}</b>.</p>
{{if .notes}}<p>Reviewer notes: {{.notes}}</p>{{end}}
{{if .payout}}<p>{{.payout}} VND has been added to your balance.</p>{{end}}`),
	TemplateCTVVerified: fmt.Sprintf(layout, `<p>Your collaborator account has been verified. You can now claim jobs.</p>`),
	TemplateJobOverdue: fmt.Sprintf(layout, `<p>The deadline for <b>{{.job_title}}</b> passed at {{.deadline}}.</p>
<p>Please submit or release the job.</p>`),
}

// TemplateManager renders the html bodies.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// NewDefaultTemplateManager is preloaded with the notification templates.
func NewDefaultTemplateManager() (*TemplateManager, error) {
	tm := NewTemplateManager()
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
