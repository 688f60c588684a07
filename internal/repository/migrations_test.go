package repository_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuzumoe/sitescope-api/internal/model"
	"github.com/fuzumoe/sitescope-api/internal/repository"
)

// mockMigrator implements the Migrator interface for testing.
type mockMigrator struct {
	calledWith []any
	errOn      any // if model matches this, return error
}

func (m *mockMigrator) AutoMigrate(dst ...any) error {
	m.calledWith = append(m.calledWith, dst[0])
	if m.errOn != nil && reflect.TypeOf(dst[0]) == reflect.TypeOf(m.errOn) {
		return fmt.Errorf("fail on %T", dst[0])
	}
	return nil
}

func TestMigrate_Success(t *testing.T) {
	mm := &mockMigrator{}
	assert.NoError(t, repository.Migrate(mm))

	a := assert.New(t)
	a.Len(mm.calledWith, len(model.AllModels))
	for i, inst := range model.AllModels {
		a.Equal(reflect.TypeOf(inst), reflect.TypeOf(mm.calledWith[i]), "call %d should migrate %T", i, inst)
	}
}

func TestMigrate_Error(t *testing.T) {
	mm := &mockMigrator{errOn: &model.CrawledPage{}}
	err := repository.Migrate(mm)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fail on *model.CrawledPage")
	assert.Len(t, mm.calledWith, 2, "sessions are migrated before pages")
}
