package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInitialize(t *testing.T) {
	bank := newTestBank()

	tests := []struct {
		name    string
		actions []Action
		wantErr error
	}{
		{
			name:    "empty list",
			actions: nil,
			wantErr: ErrInvalidAction,
		},
		{
			name:    "nil action",
			actions: []Action{&testAction{id: "a1", bank: bank}, nil},
			wantErr: ErrInvalidAction,
		},
		{
			name:    "empty id",
			actions: []Action{&testAction{id: "", bank: bank}},
			wantErr: ErrInvalidAction,
		},
		{
			name:    "action is the vault itself",
			actions: []Action{&testAction{id: "vault", bank: bank}},
			wantErr: ErrInvalidAction,
		},
		{
			name:    "duplicate id",
			actions: []Action{&testAction{id: "a1", bank: bank}, &testAction{id: "a1", bank: bank}},
			wantErr: ErrDuplicateAction,
		},
		{
			name:    "valid list",
			actions: []Action{&testAction{id: "a1", bank: bank}, &testAction{id: "a2", bank: bank}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var r ActionRegistry
			err := r.Initialize(test.actions, "vault")
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
				assert.ErrorIs(t, r.requireInitialized(), ErrNoActionInitialized)
			} else {
				require.NoError(t, err)
				assert.NoError(t, r.requireInitialized())
				assert.Equal(t, len(test.actions), r.Len())
			}
		})
	}
}

func TestRegistryInitializeOnce(t *testing.T) {
	bank := newTestBank()
	var r ActionRegistry
	require.NoError(t, r.Initialize([]Action{&testAction{id: "a1", bank: bank}}, "vault"))

	err := r.Initialize([]Action{&testAction{id: "a2", bank: bank}}, "vault")
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "a1", r.Actions()[0].ID())
}
