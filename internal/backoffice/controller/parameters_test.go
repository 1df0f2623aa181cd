package controller

import (
	"context"
	"errors"
	"testing"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newParameterService(t *testing.T) (*ParameterService, *MockProducer) {
	repo := setupRepo(t)
	producer := &MockProducer{}
	return NewParameterService(repo, producer, newValidator(), zaptest.NewLogger(t)), producer
}

func TestParameterService_Levels(t *testing.T) {
	svc, producer := newParameterService(t)
	ctx := context.Background()

	root, err := svc.CreateParameter(ctx, models.ParameterInput{Group: models.GroupRoot, Name: "TIPO DE PROYECTO", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, root.Level)

	child, err := svc.CreateParameter(ctx, models.ParameterInput{Group: models.GroupProjectType, Name: "Obra", ParentID: &root.ID, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, child.Level)

	grandchild, err := svc.CreateParameter(ctx, models.ParameterInput{Group: models.GroupProjectType, Name: "Edificación", ParentID: &child.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, grandchild.Level)
	assert.False(t, grandchild.IsActive)

	_, err = svc.CreateParameter(ctx, models.ParameterInput{Group: "X", Name: "orphan", ParentID: utils.Ptr(uint(999))})
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.Equal(t, []events.EventType{events.ParameterCreated, events.ParameterCreated, events.ParameterCreated}, producer.Produced())

	options, err := svc.ParentOptions(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	assert.ElementsMatch(t, []string{"TIPO DE PROYECTO", "Obra"}, names)
}

func TestParameterService_CreateRejectsInvalidInput(t *testing.T) {
	svc, producer := newParameterService(t)

	_, err := svc.CreateParameter(context.Background(), models.ParameterInput{Group: "", Name: ""})
	require.ErrorIs(t, err, e.ErrInvalidInput)
	verr, ok := e.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "group")
	assert.Contains(t, verr.Fields, "name")
	assert.Empty(t, producer.Produced())
}

func TestParameterService_UpdateMovesSubtree(t *testing.T) {
	svc, _ := newParameterService(t)
	ctx := context.Background()

	a, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "A", IsActive: true})
	require.NoError(t, err)
	b, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "B", ParentID: &a.ID, IsActive: true})
	require.NoError(t, err)
	c, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "C", ParentID: &b.ID, IsActive: true})
	require.NoError(t, err)
	d, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "D", ParentID: &c.ID, IsActive: true})
	require.NoError(t, err)

	// B becomes a root: B 0, C 1, D 2.
	moved, err := svc.UpdateParameter(ctx, b.ID, models.ParameterInput{Group: "G", Name: "B", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Level)
	assert.Nil(t, moved.ParentID)

	got, err := svc.GetParameter(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
	got, err = svc.GetParameter(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)

	roots, err := svc.ListRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestParameterService_UpdateRejectsCycles(t *testing.T) {
	svc, _ := newParameterService(t)
	ctx := context.Background()

	a, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "A", IsActive: true})
	require.NoError(t, err)
	b, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "B", ParentID: &a.ID, IsActive: true})
	require.NoError(t, err)
	c, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "C", ParentID: &b.ID, IsActive: true})
	require.NoError(t, err)

	tests := []struct {
		name   string
		id     uint
		parent uint
	}{
		{"self", a.ID, a.ID},
		{"child", a.ID, b.ID},
		{"grandchild", a.ID, c.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateParameter(ctx, tt.id, models.ParameterInput{Group: "G", Name: "A", ParentID: utils.Ptr(tt.parent), IsActive: true})
			require.ErrorIs(t, err, e.ErrInvalidInput)
			verr, ok := e.AsValidation(err)
			require.True(t, ok)
			assert.Contains(t, verr.Fields, "parent_id")
		})
	}

	unchanged, err := svc.GetParameter(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.ParentID)
	assert.Equal(t, 0, unchanged.Level)

	_, err = svc.UpdateParameter(ctx, 999, models.ParameterInput{Group: "G", Name: "Z"})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestParameterService_DeleteRemovesDescendants(t *testing.T) {
	svc, producer := newParameterService(t)
	ctx := context.Background()

	var parent *uint
	var ids []uint
	for _, name := range []string{"L0", "L1", "L2", "L3", "L4"} {
		p, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "DEEP", Name: name, ParentID: parent, IsActive: true})
		require.NoError(t, err)
		ids = append(ids, p.ID)
		parent = utils.Ptr(p.ID)
	}
	sibling, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "DEEP", Name: "L1b", ParentID: &ids[0], IsActive: true})
	require.NoError(t, err)
	other, err := svc.CreateParameter(ctx, models.ParameterInput{Group: "OTHER", Name: "keep", IsActive: true})
	require.NoError(t, err)

	removed, err := svc.DeleteParameter(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, int64(6), removed)

	for _, id := range append(ids, sibling.ID) {
		_, err := svc.GetParameter(ctx, id)
		assert.ErrorIs(t, err, e.ErrNotFound)
	}
	_, err = svc.GetParameter(ctx, other.ID)
	assert.NoError(t, err)

	produced := producer.Produced()
	assert.Equal(t, events.ParameterDeleted, produced[len(produced)-1])

	_, err = svc.DeleteParameter(ctx, ids[0])
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestParameterService_ListByGroup(t *testing.T) {
	svc, _ := newParameterService(t)
	ctx := context.Background()

	root, err := svc.CreateParameter(ctx, models.ParameterInput{Group: models.GroupRoot, Name: "ESTADO DEL PROYECTO", IsActive: true})
	require.NoError(t, err)
	for _, name := range []string{"En Ejecución", "Paralizado"} {
		_, err := svc.CreateParameter(ctx, models.ParameterInput{Group: models.GroupProjectStatus, Name: name, ParentID: &root.ID, IsActive: true})
		require.NoError(t, err)
	}
	_, err = svc.CreateParameter(ctx, models.ParameterInput{Group: models.GroupProjectStatus, Name: "Finalizado", ParentID: &root.ID})
	require.NoError(t, err)

	active, err := svc.ListByGroup(ctx, models.GroupProjectStatus, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := svc.ListByGroup(ctx, models.GroupProjectStatus, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.ListParameters(ctx, models.ListQuery{Search: "Parali"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

// failingParameterRepo makes every read fail.
type failingParameterRepo struct {
	ParameterRepository
	err error
}

func (r failingParameterRepo) ListParameters(context.Context, models.ListQuery) (models.Page[models.Parameter], error) {
	return models.Page[models.Parameter]{}, r.err
}

func (r failingParameterRepo) GetParameter(context.Context, uint) (*models.Parameter, error) {
	return nil, r.err
}

func TestParameterService_RepositoryErrors(t *testing.T) {
	boom := errors.New("database error")
	svc := NewParameterService(failingParameterRepo{err: boom}, &MockProducer{}, newValidator(), zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := svc.ListParameters(ctx, models.ListQuery{})
	assert.ErrorIs(t, err, boom)

	_, err = svc.GetParameter(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, e.ErrNotFound)

	_, err = svc.CreateParameter(ctx, models.ParameterInput{Group: "G", Name: "child", ParentID: utils.Ptr(uint(1))})
	assert.ErrorIs(t, err, boom)
}
