package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestio-erp/gestio-erp/internal/shared"
	_ "github.com/gestio-erp/gestio-erp/testing"
)

type mockRepository struct {
	tasks  map[int64]Task
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{tasks: make(map[int64]Task), nextID: 1}
}

func (m *mockRepository) ListByCompany(ctx context.Context, companyID int64, status Status) ([]Task, error) {
	var out []Task
	for _, task := range m.tasks {
		if task.CompanyID != companyID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return Task{}, shared.ErrNotFound
	}
	return task, nil
}

func (m *mockRepository) Create(ctx context.Context, task Task) (Task, error) {
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = task
	return task, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, task Task) error {
	if _, ok := m.tasks[id]; !ok {
		return shared.ErrNotFound
	}
	task.ID = id
	m.tasks[id] = task
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.tasks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func TestCreateTaskDefaultsToOpen(t *testing.T) {
	svc := NewService(newMockRepository())

	created, err := svc.Create(context.Background(), Task{CompanyID: 1, Title: "Conciliar extrato"})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, created.Status)
	assert.Equal(t, int64(1), created.ID)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Task{Title: "X"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), Task{CompanyID: 1, Title: " "})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), Task{CompanyID: 1, Title: "X", Status: "blocked"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListTasksFiltersByStatus(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Task{CompanyID: 1, Title: "A"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Task{CompanyID: 1, Title: "B", Status: StatusDone})
	require.NoError(t, err)

	open, err := svc.ListByCompany(context.Background(), 1, StatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "A", open[0].Title)

	all, err := svc.ListByCompany(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskIDGuards(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, shared.ErrValidation)

	err = svc.Delete(context.Background(), -5)
	require.ErrorIs(t, err, shared.ErrValidation)
}
