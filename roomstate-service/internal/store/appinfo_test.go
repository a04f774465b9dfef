package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

func TestParseAppInfo(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []domain.AppInfo
		wantErr bool
	}{
		{
			name: "empty string",
			raw:  "",
			want: []domain.AppInfo{},
		},
		{
			name: "url and bare name",
			raw:  "Dice|http://x/?slot=2,Solo",
			want: []domain.AppInfo{
				{Name: "Dice", URL: "http://x/?slot=2", Slot: "2"},
				{},
			},
		},
		{
			name: "slot among other params",
			raw:  "Tip Menu|/apps/app_details/tip-menu/?foo=1&slot=0&bar=2",
			want: []domain.AppInfo{
				{Name: "Tip Menu", URL: "/apps/app_details/tip-menu/?foo=1&slot=0&bar=2", Slot: "0"},
			},
		},
		{
			name: "empty url after pipe",
			raw:  "Ghost|",
			want: []domain.AppInfo{{}},
		},
		{
			name:    "missing slot",
			raw:     "Wheel|http://x/wheel,Dice|http://x/?slot=1",
			want:    []domain.AppInfo{{}, {Name: "Dice", URL: "http://x/?slot=1", Slot: "1"}},
			wantErr: true,
		},
		{
			name:    "slotted is not slot",
			raw:     "Wheel|http://x/?slotted=3",
			want:    []domain.AppInfo{{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAppInfo(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingSlot)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActiveApp(t *testing.T) {
	assert.Equal(t, "", ActiveApp(nil))
	assert.Equal(t, "Dice", ActiveApp([]domain.AppInfo{{}, {Name: "Dice", Slot: "2"}}))
	assert.Equal(t, "Menu", ActiveApp([]domain.AppInfo{
		{Name: "Dice", Slot: "2"},
		{Name: "Menu", Slot: "0"},
	}))
}
