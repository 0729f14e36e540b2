package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/service/mocks"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestRollover_RollOver(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		now     time.Time
		want    models.PeriodKey
		repoErr error
		wantErr bool
	}{
		{
			name: "first of the month",
			now:  time.Date(2026, 3, 1, 9, 0, 0, 0, ist),
			want: models.PeriodKey{Year: 2026, Month: time.March},
		},
		{
			// 20:00 UTC on 31 March is already April in the ledger timezone.
			name: "month boundary in ledger timezone",
			now:  time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC),
			want: models.PeriodKey{Year: 2026, Month: time.April},
		},
		{
			name:    "store failure",
			now:     time.Date(2026, 5, 1, 9, 0, 0, 0, ist),
			want:    models.PeriodKey{Year: 2026, Month: time.May},
			repoErr: fmt.Errorf("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			periods := mocks.NewMockPeriodService(ctrl)
			if tt.repoErr != nil {
				periods.EXPECT().GetOrCreatePeriod(gomock.Any(), tt.want).Return(nil, tt.repoErr)
			} else {
				periods.EXPECT().GetOrCreatePeriod(gomock.Any(), tt.want).Return(&models.MonthlyPeriod{
					Key:            tt.want,
					OpeningBalance: money.FromMajor(14237),
				}, nil)
			}

			r := NewRollover(periods, fixedClock(tt.now), ist, logger)
			got, err := r.RollOver(context.Background())

			if tt.wantErr {
				assert.ErrorIs(t, err, tt.repoErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Key)
		})
	}
}

func TestRollover_Schedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRollover(mocks.NewMockPeriodService(ctrl), fixedClock(time.Now()), time.UTC, logger)

	assert.NoError(t, r.Schedule("0 9 1 * *"))
	assert.Error(t, r.Schedule("every first monday"))

	r.Start()
	select {
	case <-r.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
