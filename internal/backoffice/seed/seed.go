// Package seed loads the reference data the back office needs on a fresh
// database: the parameter taxonomy, payroll catalogs and a Ubigeo sample.
// Every step is idempotent.
package seed

import (
	"context"
	"fmt"

	"github.com/gartstein/backoffice/internal/backoffice/db"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/pkg/utils"
	"go.uber.org/zap"
)

type root struct {
	group string
	name  string
}

var roots = []root{
	{models.GroupDocumentType, "TIPO DE DOCUMENTO"},
	{models.GroupWorkerType, "TIPO DE TRABAJADOR"},
	{models.GroupPosition, "CARGOS / PUESTOS"},
	{models.GroupAttendanceStatus, "ESTADO DE ASISTENCIA"},
	{models.GroupPaymentPeriod, "PERIODICIDAD DE PAGO"},
	{models.GroupProjectType, "TIPO DE PROYECTO"},
	{models.GroupProjectStatus, "ESTADO DE PROYECTO"},
	{models.GroupGender, "GÉNERO"},
}

var children = map[string][]string{
	models.GroupProjectType:      {"Obra", "Servicio"},
	models.GroupDocumentType:     {"DNI", "Carnet de Extranjería"},
	models.GroupProjectStatus:    {"En Ejecución", "Paralizado", "Finalizado"},
	models.GroupWorkerType:       {"Obrero", "Oficina / Staff"},
	models.GroupPosition:         {"Maestro de Obra", "Operario", "Oficial", "Peón", "Residente"},
	models.GroupAttendanceStatus: {"Asistió", "Falta", "Tardanza"},
	models.GroupPaymentPeriod:    {"Semanal", "Quincenal", "Mensual"},
	models.GroupGender:           {"Masculino", "Femenino"},
}

var positions = []models.Position{
	{Name: "Maestro de Obra", Department: "Operaciones", IsActive: true},
	{Name: "Operario", Department: "Operaciones", IsActive: true},
	{Name: "Oficial", Department: "Operaciones", IsActive: true},
	{Name: "Peón", Department: "Operaciones", IsActive: true},
	{Name: "Ingeniero Residente", Department: "Ingeniería", IsActive: true},
	{Name: "Asistente Administrativo", Department: "Administración", IsActive: true},
	{Name: "Prevencionista de Riesgos", Department: "Seguridad", IsActive: true},
	{Name: "Almacenero", Department: "Logística", IsActive: true},
}

var banks = []models.Bank{
	{Name: "BANCO DE CREDITO DEL PERU", ShortName: "BCP", RUC: "20100047218"},
	{Name: "BBVA PERU", ShortName: "BBVA", RUC: "20100130204"},
	{Name: "INTERBANK", ShortName: "INTERBANK", RUC: "20100053455"},
	{Name: "SCOTIABANK PERU", ShortName: "SCOTIA", RUC: "20100043140"},
	{Name: "BANCO DE LA NACION", ShortName: "BN", RUC: "20100030595"},
}

var pensionSystems = []models.PensionSystem{
	{Name: "AFP INTEGRA", Type: "AFP", IsActive: true},
	{Name: "AFP PRIMA", Type: "AFP", IsActive: true},
	{Name: "AFP HABITAT", Type: "AFP", IsActive: true},
	{Name: "AFP PROFUTURO", Type: "AFP", IsActive: true},
	{Name: "ONP", Type: "ONP", IsActive: true},
}

var departments = []models.Department{
	{ID: "04", Name: "AREQUIPA"},
	{ID: "07", Name: "CALLAO"},
	{ID: "15", Name: "LIMA"},
}

var provinces = []models.Province{
	{ID: "0401", Name: "AREQUIPA", DepartmentID: "04"},
	{ID: "0701", Name: "CALLAO", DepartmentID: "07"},
	{ID: "1501", Name: "LIMA", DepartmentID: "15"},
}

var districts = []models.District{
	{ID: "040101", Name: "AREQUIPA", ProvinceID: "0401", DepartmentID: "04"},
	{ID: "040103", Name: "CAYMA", ProvinceID: "0401", DepartmentID: "04"},
	{ID: "070101", Name: "CALLAO", ProvinceID: "0701", DepartmentID: "07"},
	{ID: "150101", Name: "LIMA", ProvinceID: "1501", DepartmentID: "15"},
	{ID: "150122", Name: "MIRAFLORES", ProvinceID: "1501", DepartmentID: "15"},
	{ID: "150131", Name: "SAN ISIDRO", ProvinceID: "1501", DepartmentID: "15"},
	{ID: "150140", Name: "SANTIAGO DE SURCO", ProvinceID: "1501", DepartmentID: "15"},
}

// Run seeds every reference table.
func Run(ctx context.Context, repo *db.Repository, logger *zap.Logger) error {
	logger = logger.Named("seed")
	steps := []struct {
		name string
		fn   func(context.Context, *db.Repository) (bool, error)
	}{
		{"parameters", Parameters},
		{"payroll catalogs", Payroll},
		{"ubigeo", Ubigeo},
	}
	for _, step := range steps {
		seeded, err := step.fn(ctx, repo)
		if err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		logger.Info("seed step finished", zap.String("step", step.name), zap.Bool("inserted", seeded))
	}
	return nil
}

// Parameters creates the ROOT categories and their level-one values. It does
// nothing when any root parameter exists.
func Parameters(ctx context.Context, repo *db.Repository) (bool, error) {
	existing, err := repo.RootParameters(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	err = repo.WithTransaction(ctx, func(tx *db.Repository) error {
		for _, r := range roots {
			parent := &models.Parameter{
				Group:       models.GroupRoot,
				Name:        r.name,
				Description: utils.Ptr("Categoría principal para " + r.name),
				IsActive:    true,
			}
			if err := tx.CreateParameter(ctx, parent); err != nil {
				return err
			}
			for _, name := range children[r.group] {
				child := &models.Parameter{
					Group:    r.group,
					Name:     name,
					ParentID: &parent.ID,
					Level:    1,
					IsActive: true,
				}
				if err := tx.CreateParameter(ctx, child); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return err == nil, err
}

// Payroll fills positions, banks and pension systems. Positions and banks
// are only inserted into empty tables; pension systems are matched by name.
func Payroll(ctx context.Context, repo *db.Repository) (bool, error) {
	inserted := false
	current, err := repo.Positions(ctx)
	if err != nil {
		return false, err
	}
	if len(current) == 0 {
		if err := repo.Seed(ctx, clone(positions)); err != nil {
			return false, err
		}
		inserted = true
	}

	currentBanks, err := repo.Banks(ctx)
	if err != nil {
		return false, err
	}
	if len(currentBanks) == 0 {
		if err := repo.Seed(ctx, clone(banks)); err != nil {
			return false, err
		}
		inserted = true
	}

	if err := repo.Seed(ctx, clone(pensionSystems)); err != nil {
		return false, err
	}
	return inserted, nil
}

// Ubigeo inserts the sample departments, provinces and districts, skipping
// codes already present.
func Ubigeo(ctx context.Context, repo *db.Repository) (bool, error) {
	if err := repo.Seed(ctx, clone(departments)); err != nil {
		return false, err
	}
	if err := repo.Seed(ctx, clone(provinces)); err != nil {
		return false, err
	}
	if err := repo.Seed(ctx, clone(districts)); err != nil {
		return false, err
	}
	return true, nil
}

// clone copies a fixture slice so GORM can write generated ids into it
// without touching the package-level data.
func clone[T any](rows []T) []T {
	return append([]T(nil), rows...)
}
