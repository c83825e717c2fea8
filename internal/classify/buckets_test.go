package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadscout/internal/model"
)

func TestMapRole(t *testing.T) {
	tests := []struct {
		role string
		want model.Bucket
	}{
		{"CEO & Co-Founder", model.BucketExecutive},
		{"Managing Director", model.BucketExecutive},
		{"Chief Technology Officer", model.BucketTechOps},
		{"Head of Operations", model.BucketTechOps},
		{"CFO", model.BucketFinance},
		{"HR Manager", model.BucketFinance},
		{"VP Business Development", model.BucketGrowth},
		{"Head of Sales", model.BucketGrowth},
		{"Chief Marketing Officer", model.BucketMarketing},
		{"Brand Manager", model.BucketMarketing},
		{"Senior Software Engineer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, MapRole(tt.role))
		})
	}
}

func TestMapRole_OrderMatters(t *testing.T) {
	// "Director" hits the executive rule before anything later in the table.
	assert.Equal(t, model.BucketExecutive, MapRole("Director of Marketing"))
}

func TestLeaders_OneSlotPerBucket(t *testing.T) {
	rec := Leaders([]model.LeaderRef{
		{Name: "John Smith", Role: "CEO"},
		{Name: "Maria Garcia", Role: "Founder"}, // executive already taken, dropped
		{Name: "Wei Chen", Role: "CTO"},
	})

	assert.Equal(t, "John Smith", rec[model.BucketExecutive].Name)
	assert.Equal(t, "CEO", rec[model.BucketExecutive].Designation)
	assert.Equal(t, "Wei Chen", rec[model.BucketTechOps].Name)
	assert.False(t, rec[model.BucketFinance].Filled())
}

func TestLeaders_SkipsUnmatchedAndIncomplete(t *testing.T) {
	rec := Leaders([]model.LeaderRef{
		{Name: "Sam Jones", Role: "Staff Engineer"}, // no bucket
		{Name: "", Role: "CEO"},                     // missing name
		{Name: "Ana Ruiz", Role: ""},                // missing role
	})
	for _, b := range model.Buckets {
		assert.False(t, rec[b].Filled())
	}
}
