package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xbar-clockify/internal/adapter/clockify"
	"xbar-clockify/internal/config"
	"xbar-clockify/internal/domain"
	"xbar-clockify/internal/notify"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeClockify struct {
	entries []domain.TimeEntry
	err     error
	ins     int
	outs    int
}

func (f *fakeClockify) ClockIn(ctx context.Context) (domain.TimeEntry, error) {
	f.ins++
	return domain.TimeEntry{}, f.err
}

func (f *fakeClockify) ClockOut(ctx context.Context) (domain.TimeEntry, error) {
	f.outs++
	return domain.TimeEntry{}, f.err
}

func (f *fakeClockify) TimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	return f.entries, f.err
}

type recordingNotifier struct{ shown []notify.Notification }

func (r *recordingNotifier) Notify(ctx context.Context, n notify.Notification) error {
	r.shown = append(r.shown, n)
	return nil
}

func configError(t *testing.T) error {
	t.Helper()
	for _, k := range []string{"API_TOKEN", "WORKSPACE_ID", "MY_USER_ID", "PROJECT_ID", "BASE_URL"} {
		t.Setenv(k, "")
	}
	_, err := config.FromEnv(config.Config{})
	require.Error(t, err)
	return err
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindConfig, Classify(configError(t)))
	assert.Equal(t, KindAPI, Classify(fmt.Errorf("wrapped: %w", &clockify.APIError{StatusCode: 500})))
	assert.Equal(t, KindNetwork, Classify(&clockify.NetworkError{Op: "x", Err: os.ErrDeadlineExceeded}))
	assert.Equal(t, KindUnexpected, Classify(errors.New("boom")))
}

func TestFailureMessage(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		err    error
		want   string
	}{
		{"unauthorized", ActionClockIn, &clockify.APIError{StatusCode: http.StatusUnauthorized}, "Authentication failed. Check your API token."},
		{"already running", ActionClockIn, &clockify.APIError{StatusCode: http.StatusBadRequest}, "Invalid request. You may already be clocked in."},
		{"bad request on clock out", ActionClockOut, &clockify.APIError{StatusCode: http.StatusBadRequest, Message: "nope"}, "API error: nope"},
		{"nothing to stop", ActionClockOut, &clockify.APIError{StatusCode: http.StatusNotFound}, "No active time entry found to clock out."},
		{"server error", ActionClockIn, &clockify.APIError{StatusCode: 500, Message: "Internal Server Error"}, "API error: Internal Server Error"},
		{"network", ActionClockOut, &clockify.NetworkError{Op: "x", Err: errors.New("refused")}, "Network error. Please check your connection."},
		{"other", ActionClockIn, errors.New("boom"), "boom"},
		{"nil", ActionClockOut, nil, "Failed to clock out"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FailureMessage(tc.action, tc.err))
		})
	}

	assert.Equal(t, "Configuration error: Missing required environment variables: API_TOKEN, WORKSPACE_ID, MY_USER_ID, PROJECT_ID, BASE_URL",
		FailureMessage(ActionClockIn, configError(t)))
}

func TestClockAction_SuccessNotifies(t *testing.T) {
	client := &fakeClockify{}
	n := &recordingNotifier{}
	a := &ClockAction{Log: testLogger(), Client: client, Notifier: n}

	require.NoError(t, a.ClockIn(context.Background()))
	require.NoError(t, a.ClockOut(context.Background()))

	assert.Equal(t, 1, client.ins)
	assert.Equal(t, 1, client.outs)
	require.Len(t, n.shown, 2)
	assert.Equal(t, notify.Notification{Title: "Clockify", Message: "Successfully clocked in", Sound: "Glass"}, n.shown[0])
	assert.Equal(t, "Successfully clocked out", n.shown[1].Message)
}

func TestClockAction_FailureNotifiesAndReturnsError(t *testing.T) {
	apiErr := &clockify.APIError{StatusCode: http.StatusNotFound, Message: "No active time entry found to clock out"}
	n := &recordingNotifier{}
	a := &ClockAction{Log: testLogger(), Client: &fakeClockify{err: apiErr}, Notifier: n}

	err := a.ClockOut(context.Background())
	assert.ErrorIs(t, err, apiErr)
	require.Len(t, n.shown, 1)
	assert.Equal(t, notify.Notification{
		Title:   "Clockify Error",
		Message: "No active time entry found to clock out.",
		Sound:   "Basso",
	}, n.shown[0])
}
