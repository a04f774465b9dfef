package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

func TestLabelExtractor(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.PanelRow
		want *domain.Goal
	}{
		{
			name: "no goal rows",
			rows: []domain.PanelRow{{Label: "Highest Tip", Value: "bob"}},
		},
		{
			name: "goal with total",
			rows: []domain.PanelRow{{Label: "Tip Goal", Value: "120 / 500 tokens"}},
			want: &domain.Goal{Current: 120, Remaining: 380},
		},
		{
			name: "explicit fields",
			rows: []domain.PanelRow{
				{Label: "Received", Value: "1,200"},
				{Label: "Remaining", Value: "300"},
				{Label: "Goals Reached", Value: "2"},
			},
			want: &domain.Goal{Current: 1200, Remaining: 300, Count: 2},
		},
		{
			name: "overshoot clamps remaining",
			rows: []domain.PanelRow{{Label: "Goal", Value: "600 / 500"}},
			want: &domain.Goal{Current: 600, Remaining: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelExtractor{}.Extract("", tt.rows))
		})
	}
}
