package controller

import (
	"context"
	"testing"
	"time"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSafetyTalkService(t *testing.T) {
	repo := setupRepo(t)
	files, root := setupFiles(t)
	svc := NewSafetyTalkService(repo, newValidator(), files, "safety_talks/evidence", zaptest.NewLogger(t))
	ctx := context.Background()

	project := createProject(t, repo, "OBR-2026-0001")
	ana := createWorker(t, repo, "11111111")
	luis := createWorker(t, repo, "22222222")
	outsider := createWorker(t, repo, "33333333")

	talk, err := svc.CreateSafetyTalk(ctx, project.ID, models.SafetyTalkInput{
		Date:           time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC),
		Topic:          "Trabajos en altura",
		InstructorName: "Ing. Salas",
		WorkerUUIDs:    []string{ana.UUID.String(), luis.UUID.String(), ana.UUID.String()},
	}, pngUpload(t, "evidence", "foto.png"))
	require.NoError(t, err)
	require.Len(t, talk.Participants, 2)
	require.NotNil(t, talk.EvidencePath)
	assert.Len(t, filesIn(t, root, "safety_talks/evidence"), 1)

	require.NoError(t, svc.SignAttendance(ctx, talk.ID, ana.UUID))
	err = svc.SignAttendance(ctx, talk.ID, outsider.UUID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, svc.SignAttendance(ctx, talk.ID, uuid.New()), e.ErrNotFound)

	talks, err := svc.ListSafetyTalks(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, talks, 1)
	signed := 0
	for _, p := range talks[0].Participants {
		if p.Signed {
			signed++
			assert.Equal(t, ana.ID, p.WorkerID)
		}
	}
	assert.Equal(t, 1, signed)
}

func TestSafetyTalkService_UnknownParticipant(t *testing.T) {
	repo := setupRepo(t)
	files, root := setupFiles(t)
	svc := NewSafetyTalkService(repo, newValidator(), files, "safety_talks/evidence", zaptest.NewLogger(t))
	ctx := context.Background()

	project := createProject(t, repo, "OBR-2026-0001")
	_, err := svc.CreateSafetyTalk(ctx, project.ID, models.SafetyTalkInput{
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Topic:          "EPP",
		InstructorName: "Ing. Salas",
		WorkerUUIDs:    []string{uuid.NewString()},
	}, pngUpload(t, "evidence", "foto.png"))
	verr, ok := e.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "worker_uuids")
	assert.Empty(t, filesIn(t, root, "safety_talks/evidence"))

	_, err = svc.CreateSafetyTalk(ctx, 999, models.SafetyTalkInput{
		Date: time.Now(), Topic: "EPP", InstructorName: "Ing. Salas",
	}, nil)
	assert.ErrorIs(t, err, e.ErrNotFound)
}
