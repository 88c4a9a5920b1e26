package ingest

import (
	"testing"

	"fjacquet/credit-summary/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	a := []models.Record{{SequenceID: "a1"}, {SequenceID: "a2"}}
	b := []models.Record{{SequenceID: "b1"}}

	merged := Merge([][]models.Record{a, nil, b})

	var ids []string
	for _, r := range merged {
		ids = append(ids, r.SequenceID)
	}
	assert.Equal(t, []string{"a1", "a2", "b1"}, ids)

	merged[0].SequenceID = "changed"
	assert.Equal(t, "a1", a[0].SequenceID)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge(nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
