package store

import (
	"testing"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordAndVerify(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.auth.SetPassword(models.RoleMesero, "Sotos_Mesas", "c"))

	assert.NoError(t, env.auth.Verify(models.RoleMesero, "Sotos_Mesas"))
	assert.ErrorIs(t, env.auth.Verify(models.RoleMesero, "wrong"), ErrWrongPassword)
	assert.ErrorIs(t, env.auth.Verify("portero", "whatever"), ErrUnknownRole)
	assert.ErrorIs(t, env.auth.SetPassword(models.RoleMesero, "abc", "c"), ErrWeakPassword)
	assert.ErrorIs(t, env.auth.SetPassword("portero", "secret", "c"), ErrUnknownRole)
}

func TestSetPasswordBumpsChangedAtAndSignalsLogout(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.auth.SetPassword(models.RoleCocina, "Cocina_X", "c"))
	before, err := env.auth.ChangedAt(models.RoleCocina)
	require.NoError(t, err)

	ch, cancel := env.bus.Subscribe()
	defer cancel()

	require.NoError(t, env.auth.SetPassword(models.RoleCocina, "Cocina_Y", "c"))

	after, err := env.auth.ChangedAt(models.RoleCocina)
	require.NoError(t, err)
	assert.True(t, after.After(before))

	evts := drainEvents(ch)
	require.Len(t, evts, 1)
	assert.Equal(t, events.KeyPasswordChanged, evts[0].Key)
	// Only the affected role is told to log out.
	assert.True(t, evts[0].ForRole(models.RoleCocina))
	assert.False(t, evts[0].ForRole(models.RoleMesero))
}

func TestBroadcastMostRecentWins(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.broadcasts.Publish("   ", "c")
	assert.ErrorIs(t, err, ErrEmptyBroadcast)

	first, err := env.broadcasts.Publish("Cerramos a las 10", "c")
	require.NoError(t, err)

	second, err := env.broadcasts.Publish("Ya abrimos", "c")
	require.NoError(t, err)
	assert.False(t, second.Timestamp.Before(first.Timestamp))

	current, found := env.broadcasts.Current()
	require.True(t, found)
	assert.Equal(t, "Ya abrimos", current.Message)
}
