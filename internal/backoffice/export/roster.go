// Package export renders spreadsheet reports.
package export

import (
	"fmt"
	"io"

	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/xuri/excelize/v2"
)

const (
	RosterSheet = "Trabajadores"
	dateLayout  = "2006-01-02"
)

var rosterHeader = []interface{}{
	"UUID", "Tipo de documento", "Número de documento", "Nombre completo",
	"Cargo", "Empresa", "Proyecto", "Salario diario", "Salario mensual",
	"Fecha de ingreso", "Activo",
}

// Source feeds the roster in batches; fn is called once per batch.
type Source func(fn func(batch []models.Worker) error) error

// Roster streams the worker roster as an xlsx workbook into w. Rows are
// written as batches arrive, so the roster is never held in memory whole.
func Roster(w io.Writer, source Source) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RosterSheet); err != nil {
		return 0, err
	}
	sw, err := f.NewStreamWriter(RosterSheet)
	if err != nil {
		return 0, err
	}
	if err := sw.SetRow("A1", rosterHeader); err != nil {
		return 0, err
	}

	rows := 0
	err = source(func(batch []models.Worker) error {
		for i := range batch {
			cell, err := excelize.CoordinatesToCellName(1, rows+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, rosterRow(&batch[i])); err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		return rows, fmt.Errorf("failed to write roster: %w", err)
	}

	if err := sw.Flush(); err != nil {
		return rows, err
	}
	if err := f.Write(w); err != nil {
		return rows, err
	}
	return rows, nil
}

func rosterRow(w *models.Worker) []interface{} {
	hired := ""
	if w.HireDate != nil {
		hired = w.HireDate.Format(dateLayout)
	}
	active := "No"
	if w.IsActive {
		active = "Sí"
	}
	var documentType, position, company, project string
	if w.DocumentType != nil {
		documentType = w.DocumentType.Name
	}
	if w.Position != nil {
		position = w.Position.Name
	}
	if w.Company != nil {
		company = w.Company.Name
	}
	if w.Project != nil {
		project = w.Project.ShortName
	}
	daily, _ := w.DailySalary.Float64()
	monthly, _ := w.MonthlySalary.Float64()
	return []interface{}{
		w.UUID.String(),
		documentType,
		w.DocumentNumber,
		view.FullName(w),
		position,
		company,
		project,
		daily,
		monthly,
		hired,
		active,
	}
}
