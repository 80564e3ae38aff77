package attendance

import (
	"context"
	"log/slog"
	"testing"

	"github.com/eislab/lab-tracker/internal/database"
	"github.com/eislab/lab-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func seedUser(t *testing.T, engine *Engine, id model.ID, first, last string, tags model.Tags) {
	t.Helper()

	_, err := engine.Register(context.Background(), RegisterParams{
		StudentID: id,
		FirstName: first,
		LastName:  last,
		Tags:      tags,
	})
	require.NoError(t, err)
}

func TestDirectory_Search(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	seedUser(t, engine, 123456, "Alice", "Smith", 0)
	seedUser(t, engine, 654321, "Bob", "Smithers", 0)
	seedUser(t, engine, 111111, "Carol", "Jones", 0)

	tests := []struct {
		name    string
		query   string
		wantIDs []model.ID
	}{
		{"first name", "alice", []model.ID{123456}},
		{"last name substring", "smith", []model.ID{123456, 654321}},
		{"full name", "Alice Smith", []model.ID{123456}},
		{"student id prefix", "1234", []model.ID{123456}},
		{"case insensitive", "CAROL", []model.ID{111111}},
		{"no match", "zebra", []model.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := directory.Search(ctx, tt.query)
			require.NoError(t, err)

			gotIDs := make([]model.ID, 0, len(users))
			for _, user := range users {
				gotIDs = append(gotIDs, user.StudentID)
			}
			assert.ElementsMatch(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestDirectory_ListPresentPartition(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	seedUser(t, engine, 100001, "Ada", "Admin", model.TagAdmin)
	seedUser(t, engine, 100002, "Sam", "Super", model.TagSupervisor)
	seedUser(t, engine, 100003, "Stu", "Dent", model.TagWhite)
	seedUser(t, engine, 100004, "Ann", "Absent", model.TagAdmin)

	_, err := engine.CheckIn(ctx, 100001, nil)
	require.NoError(t, err)
	_, err = engine.CheckIn(ctx, 100002, boolPtr(true))
	require.NoError(t, err)
	_, err = engine.CheckIn(ctx, 100003, nil)
	require.NoError(t, err)

	present, err := directory.ListPresent(ctx)
	require.NoError(t, err)

	require.Len(t, present.Admins, 1)
	assert.Equal(t, model.ID(100001), present.Admins[0].StudentID)

	require.Len(t, present.Supervisors, 1)
	assert.Equal(t, model.ID(100002), present.Supervisors[0].StudentID)

	require.Len(t, present.Students, 1)
	assert.Equal(t, model.ID(100003), present.Students[0].StudentID)
}

func TestDirectory_AdminBitWinsOverSupervisor(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	seedUser(t, engine, 200001, "Both", "Bits", model.TagAdmin|model.TagSupervisor)

	_, err := engine.CheckIn(ctx, 200001, boolPtr(true))
	require.NoError(t, err)

	present, err := directory.ListPresent(ctx)
	require.NoError(t, err)

	assert.Len(t, present.Admins, 1)
	assert.Empty(t, present.Supervisors, "a user must never be double-counted")
	assert.Empty(t, present.Students)
}

func TestDirectory_SupervisorNeedsSupervisingSession(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	// Holds the tag, but badge-in was not in a supervisory capacity.
	seedUser(t, engine, 200002, "Tag", "Only", model.TagSupervisor)

	_, err := engine.CheckIn(ctx, 200002, nil)
	require.NoError(t, err)

	present, err := directory.ListPresent(ctx)
	require.NoError(t, err)

	assert.Empty(t, present.Supervisors)
	require.Len(t, present.Students, 1)
	assert.Equal(t, model.ID(200002), present.Students[0].StudentID)
}

func TestDirectory_BootstrapAdminNeverSupervises(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	require.NoError(t, database.EnsureBootstrapAdmin(ctx, slog.Default(), db))

	// Strip the admin bit and grant supervisor: the sentinel must still not
	// show up in the supervisor bucket.
	_, err := engine.EditTags(ctx, database.BootstrapAdminID, model.TagSupervisor)
	require.NoError(t, err)

	_, err = engine.CheckIn(ctx, database.BootstrapAdminID, boolPtr(true))
	require.NoError(t, err)

	present, err := directory.ListPresent(ctx)
	require.NoError(t, err)

	assert.Empty(t, present.Supervisors)
	require.Len(t, present.Students, 1)
}

func TestDirectory_TotalHours(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	seedUser(t, engine, 123456, "Alice", "Smith", 0)

	// No sessions yet.
	hours, err := directory.TotalHours(ctx, 123456, 10_000_000)
	require.NoError(t, err)
	assert.Zero(t, hours)

	// One closed session: check-in at minute 1, check-out at minute 2.
	_, err = engine.CheckIn(ctx, 123456, nil)
	require.NoError(t, err)
	_, err = engine.CheckOut(ctx, 123456)
	require.NoError(t, err)

	hours, err = directory.TotalHours(ctx, 123456, 10_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/60, hours, 1e-9)

	// An open session counts up to asOf: reopened at minute 3, asOf minute 4.
	entry, err := engine.CheckIn(ctx, 123456, nil)
	require.NoError(t, err)

	asOf := entry.TimeIn + 60_000
	hours, err = directory.TotalHours(ctx, 123456, asOf)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/60, hours, 1e-9)
}

func TestDirectory_TotalHoursUnknownUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	directory := NewDirectory(slog.Default(), db)

	_, err := directory.TotalHours(ctx, 424242, 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDirectory_History(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	engine := newTestEngine(t, db)
	directory := NewDirectory(slog.Default(), db)

	seedUser(t, engine, 123456, "Alice", "Smith", 0)

	for i := 0; i < 3; i++ {
		_, err := engine.CheckIn(ctx, 123456, nil)
		require.NoError(t, err)
		_, err = engine.CheckOut(ctx, 123456)
		require.NoError(t, err)
	}

	entries, err := directory.History(ctx, 123456)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i].TimeIn, entries[i-1].TimeIn, "history must be oldest first")
	}

	_, err = directory.History(ctx, 424242)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
