package salary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"labourhub/internal/domain/apperr"
	"labourhub/internal/domain/query"
)

// GeneratePayslip renders the salary as a PDF under PayslipDir and records
// the file location on the salary.
func (s *Service) GeneratePayslip(ctx context.Context, id string) (Salary, error) {
	sal, err := s.Get(ctx, id)
	if err != nil {
		return Salary{}, err
	}
	if err := os.MkdirAll(s.PayslipDir, 0o755); err != nil {
		return Salary{}, err
	}
	filePath := filepath.Join(s.PayslipDir, sal.ID+".pdf")
	if err := renderPayslip(sal, filePath); err != nil {
		return Salary{}, err
	}
	if err := s.Store.SetPayslipURL(ctx, sal.ID, filePath); err != nil {
		_ = os.Remove(filePath)
		return Salary{}, mapWriteError(err)
	}
	return s.Get(ctx, sal.ID)
}

// Payslip resolves where the payslip of a salary can be fetched from.
func (s *Service) Payslip(ctx context.Context, id string) (Payslip, error) {
	sal, err := s.Get(ctx, id)
	if err != nil {
		return Payslip{}, err
	}
	location := strings.TrimSpace(sal.PayslipURL)
	switch {
	case location == "":
		return Payslip{}, apperr.NotFound("payslip")
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return Payslip{URL: location}, nil
	}
	if _, err := os.Stat(location); err != nil {
		return Payslip{}, apperr.NotFound("payslip")
	}
	return Payslip{Path: location}, nil
}

func renderPayslip(sal Salary, filePath string) error {
	name := sal.LabourerName
	if name == "" {
		name = sal.LabourerID
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Labourer: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Salary ID: %s", sal.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", query.FormatDay(sal.StartPeriod), query.FormatDay(sal.EndPeriod)))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Days present: %d", sal.TotalDaysPresent))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Daily wage: %s", sal.DailyWage.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s", sal.TotalSalary.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", sal.Status))
	if sal.PaymentDate != nil {
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Paid on: %s", query.FormatDay(*sal.PaymentDate)))
	}

	return pdf.OutputFileAndClose(filePath)
}
