package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

type ReportService interface {
	// PayoutsXLSX renders the ledger payouts in [from, to) as a workbook.
	PayoutsXLSX(ctx context.Context, from, to time.Time) ([]byte, error)
}

type ReportServiceImpl struct {
	tx         repositories.Transactor
	ledgerRepo repositories.LedgerRepository
}

func NewReportService(tx repositories.Transactor, ledgerRepo repositories.LedgerRepository) *ReportServiceImpl {
	return &ReportServiceImpl{tx: tx, ledgerRepo: ledgerRepo}
}

const payoutSheet = "Payouts"

var payoutHeaders = []string{
	"Paid At",
	"Collaborator",
	"Email",
	"Job",
	"Amount (VND)",
	"Balance After (VND)",
	"Entry ID",
}

func (s *ReportServiceImpl) PayoutsXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !to.After(from) {
		return nil, apperrors.NewBadRequestError("'to' must be after 'from'")
	}
	start := time.Now()

	rows, err := s.ledgerRepo.ListPayouts(s.tx.DB(ctx), from, to)
	if err != nil {
		return nil, handleRepoError(err)
	}

	buf, err := buildPayoutWorkbook(rows)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Payout report generated",
		"rows", len(rows),
		"from", from,
		"to", to,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

func buildPayoutWorkbook(rows []repositories.PayoutRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payoutSheet); err != nil {
		return nil, err
	}

	for i, h := range payoutHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(payoutSheet, cell, h)
	}

	var total int64
	row := 2
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(payoutSheet, cell, v)
		}
		write(1, r.CreatedAt.UTC().Format("2006-01-02 15:04"))
		write(2, r.FullName)
		write(3, r.Email)
		write(4, r.JobTitle)
		write(5, r.Amount)
		write(6, r.BalanceAfter)
		write(7, r.ID)
		total += r.Amount
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(4, row)
	totalCell, _ := excelize.CoordinatesToCellName(5, row)
	_ = f.SetCellValue(payoutSheet, totalLabel, "Total")
	_ = f.SetCellValue(payoutSheet, totalCell, total)

	_ = f.SetColWidth(payoutSheet, "A", "A", 18)
	_ = f.SetColWidth(payoutSheet, "B", "C", 28)
	_ = f.SetColWidth(payoutSheet, "D", "D", 40)
	_ = f.SetColWidth(payoutSheet, "E", "F", 18)
	_ = f.SetColWidth(payoutSheet, "G", "G", 38)

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return out.Bytes(), nil
}
