package gateway

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Doodle/internal/app"
	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/core/mocks"
	"github.com/dkeye/Doodle/internal/domain"
)

type eventNamed string

func (m eventNamed) Matches(x any) bool {
	ev, ok := x.(core.Event)
	return ok && ev.Type == string(m)
}

func (m eventNamed) String() string { return "event " + string(m) }

func setup(t *testing.T) (*Gateway, *mocks.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	reg := app.NewRegistry(app.RegistryConfig{}, n)
	t.Cleanup(reg.Close)
	return New(reg, n), n
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestHandle_CreateRoom(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), eventNamed(core.OutRoomCreated)).Return(nil)

	g.Handle("p1", core.InCreateRoom, raw(t, map[string]string{"playerName": "Alice"}))

	e, ok := g.Rooms.Player("p1")
	require.True(t, ok)
	assert.True(t, e.IsHost)
	assert.Equal(t, "Alice", e.Name)
}

func TestHandle_JoinUnknownRoomRepliesError(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), core.ErrorEvent("Room not found")).Return(nil)

	g.Handle("p1", core.InJoinRoom, raw(t, map[string]string{"roomCode": "QWERTY", "playerName": "Bob"}))
}

func TestHandle_JoinAcceptsLowercaseCode(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), eventNamed(core.OutRoomCreated)).Return(nil)
	code, err := g.Rooms.CreateRoom("p1", "Alice")
	require.NoError(t, err)

	gomock.InOrder(
		n.EXPECT().Send(domain.PlayerID("p1"), eventNamed(core.OutPlayerJoined)).Return(nil),
		n.EXPECT().Send(domain.PlayerID("p2"), eventNamed(core.OutRoomJoined)).Return(nil),
	)
	g.Handle("p2", core.InJoinRoom, raw(t, map[string]string{
		"roomCode":   " " + strings.ToLower(string(code)),
		"playerName": "Bob",
	}))

	e, ok := g.Rooms.Player("p2")
	require.True(t, ok)
	assert.Equal(t, code, e.RoomCode)
}

func TestHandle_JoinFullRoomRepliesError(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	code, err := g.Rooms.CreateRoom("p1", "Host")
	require.NoError(t, err)
	for _, id := range []domain.PlayerID{"p2", "p3", "p4", "p5", "p6", "p7", "p8"} {
		_, err := g.Rooms.JoinRoom(id, code, "Guest")
		require.NoError(t, err)
	}

	ctrl := gomock.NewController(t)
	late := mocks.NewMockNotifier(ctrl)
	late.EXPECT().Send(domain.PlayerID("p9"), core.ErrorEvent("Room is full")).Return(nil)
	g.Notifier = late

	g.Handle("p9", core.InJoinRoom, raw(t, map[string]string{"roomCode": string(code), "playerName": "Late"}))
}

func TestHandle_StartGameByNonHostIsSilent(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	code, err := g.Rooms.CreateRoom("p1", "Host")
	require.NoError(t, err)
	_, err = g.Rooms.JoinRoom("p2", code, "Guest")
	require.NoError(t, err)

	g.Handle("p2", core.InStartGame, raw(t, map[string]string{"roomCode": string(code)}))
	g.Handle("p1", core.InStartGame, raw(t, map[string]string{"roomCode": "NOROOM"}))

	view, _ := g.Rooms.Lookup(code)
	assert.Equal(t, domain.StateWaiting, view.State)
}

func TestHandle_StartGameNotEnoughPlayersRepliesToRequesterOnly(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), eventNamed(core.OutRoomCreated)).Return(nil)
	code, err := g.Rooms.CreateRoom("p1", "Host")
	require.NoError(t, err)

	n.EXPECT().Send(domain.PlayerID("p1"), core.ErrorEvent("Need at least 2 players to start")).Return(nil)
	g.Handle("p1", core.InStartGame, raw(t, map[string]string{"roomCode": string(code)}))

	view, _ := g.Rooms.Lookup(code)
	assert.Equal(t, domain.StateWaiting, view.State)
}

func TestHandle_StartGameBroadcastsGameStarting(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(gomock.Any(), gomock.Not(eventNamed(core.OutGameStarting))).Return(nil).AnyTimes()
	code, err := g.Rooms.CreateRoom("p1", "Host")
	require.NoError(t, err)
	_, err = g.Rooms.JoinRoom("p2", code, "Guest")
	require.NoError(t, err)

	starting := core.NewEvent(core.OutGameStarting, core.Countdown{Countdown: 3})
	n.EXPECT().Send(domain.PlayerID("p1"), starting).Return(nil)
	n.EXPECT().Send(domain.PlayerID("p2"), starting).Return(nil)

	g.Handle("p1", core.InStartGame, raw(t, map[string]string{"roomCode": string(code)}))

	view, _ := g.Rooms.Lookup(code)
	assert.Equal(t, domain.StateStarting, view.State)
}

func TestHandle_SubmissionFromUnknownPlayerIsSilent(t *testing.T) {
	g, _ := setup(t)

	g.Handle("ghost", core.InSubmitDrawing, raw(t, map[string]any{"drawing": "data:image/png;base64,AAA"}))
	g.Handle("ghost", core.InSubmitSlogan, raw(t, map[string]any{"slogan": "hi"}))
	g.Handle("ghost", core.InChatMessage, raw(t, map[string]any{"message": "hi"}))
}

func TestHandle_SubmitDrawingBroadcastsTotal(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(gomock.Any(), gomock.Not(eventNamed(core.OutDrawingReceived))).Return(nil).AnyTimes()
	code, err := g.Rooms.CreateRoom("p1", "Host")
	require.NoError(t, err)
	_, err = g.Rooms.JoinRoom("p2", code, "Guest")
	require.NoError(t, err)

	want := core.NewEvent(core.OutDrawingReceived, core.SubmissionReceived{Player: "Guest", Total: 1})
	n.EXPECT().Send(domain.PlayerID("p1"), want).Return(nil)
	n.EXPECT().Send(domain.PlayerID("p2"), want).Return(nil)

	g.Handle("p2", core.InSubmitDrawing, json.RawMessage(`{"drawing":{"strokes":[[1,2],[3,4]]}}`))

	view, _ := g.Rooms.Lookup(code)
	require.Len(t, view.Drawings, 1)
	assert.JSONEq(t, `{"strokes":[[1,2],[3,4]]}`, string(view.Drawings[0].Payload))
}

func TestHandle_MalformedPayload(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), core.ErrorEvent("Malformed request")).Return(nil)

	g.Handle("p1", core.InCreateRoom, json.RawMessage(`{"playerName": 42}`))
}

func TestHandle_UnknownEvent(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), core.ErrorEvent("Unknown request")).Return(nil)

	g.Handle("p1", "dance", nil)
}

func TestHandle_EmptyNameRepliesError(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(domain.PlayerID("p1"), core.ErrorEvent("Please enter a name")).Return(nil)

	g.Handle("p1", core.InCreateRoom, raw(t, map[string]string{"playerName": ""}))
}

func TestDisconnect_HostMigration(t *testing.T) {
	g, n := setup(t)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	code, err := g.Rooms.CreateRoom("p1", "Host")
	require.NoError(t, err)
	_, err = g.Rooms.JoinRoom("p2", code, "Guest")
	require.NoError(t, err)

	gomock.InOrder(
		n.EXPECT().Send(domain.PlayerID("p2"), core.NewEvent(core.OutNewHost, core.NewHost{
			Player: domain.Player{ID: "p2", Name: "Guest", IsHost: true},
		})).Return(nil),
		n.EXPECT().Send(domain.PlayerID("p2"), core.NewEvent(core.OutPlayerLeft, core.PlayerLeft{PlayerID: "p1"})).Return(nil),
	)
	g.Disconnect("p1")
	g.Disconnect("p1")

	view, ok := g.Rooms.Lookup(code)
	require.True(t, ok)
	assert.Equal(t, domain.PlayerID("p2"), view.Host)
}
