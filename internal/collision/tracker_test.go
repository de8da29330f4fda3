package collision

import (
	"testing"

	"github.com/arloliu/annfix/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Paths())

	kind, ok := tracker.Kind("")
	require.True(t, ok)
	require.Equal(t, KindGroup, kind)
}

func TestTracker_TrackNested(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.TrackGroup("obsm"))
	require.NoError(t, tracker.TrackGroup("obsm/int32_csr"))
	require.NoError(t, tracker.TrackArray("obsm/int32_csr/data"))
	require.NoError(t, tracker.TrackArray("X"))

	require.Equal(t, 4, tracker.Count())
	require.Equal(t, []string{"obsm", "obsm/int32_csr", "obsm/int32_csr/data", "X"}, tracker.Paths())

	kind, ok := tracker.Kind("X")
	require.True(t, ok)
	require.Equal(t, KindArray, kind)
	require.Equal(t, "array", kind.String())
}

func TestTracker_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*Tracker)
		track   func(*Tracker) error
		wantErr error
	}{
		{
			name:    "root",
			prepare: func(*Tracker) {},
			track:   func(tr *Tracker) error { return tr.TrackGroup("") },
			wantErr: errs.ErrNodeExists,
		},
		{
			name:    "duplicate array",
			prepare: func(tr *Tracker) { _ = tr.TrackArray("X") },
			track:   func(tr *Tracker) error { return tr.TrackArray("X") },
			wantErr: errs.ErrNodeExists,
		},
		{
			name:    "group over array",
			prepare: func(tr *Tracker) { _ = tr.TrackArray("X") },
			track:   func(tr *Tracker) error { return tr.TrackGroup("X") },
			wantErr: errs.ErrNodeExists,
		},
		{
			name:    "child of array",
			prepare: func(tr *Tracker) { _ = tr.TrackArray("X") },
			track:   func(tr *Tracker) error { return tr.TrackArray("X/data") },
			wantErr: errs.ErrNodeExists,
		},
		{
			name:    "missing parent",
			prepare: func(*Tracker) {},
			track:   func(tr *Tracker) error { return tr.TrackArray("obs/_index") },
			wantErr: errs.ErrNodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker()
			tt.prepare(tracker)
			require.ErrorIs(t, tt.track(tracker), tt.wantErr)
		})
	}
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.TrackGroup("obs"))
	require.NoError(t, tracker.TrackArray("obs/_index"))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	_, ok := tracker.Kind("obs")
	require.False(t, ok)
	require.NoError(t, tracker.TrackGroup("obs"))
}
