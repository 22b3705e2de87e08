package signup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseField("phone")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestUpdateField_UnknownNameLeavesFormAlone(t *testing.T) {
	p := NewPage(nil, nil, nil)
	require.NoError(t, p.UpdateField("email", "a@b.c"))

	err := p.UpdateField("phone", "123")
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, FormState{Email: "a@b.c"}, p.Form())
}

func TestUpdateField_OnlyTouchesOneField(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := NewPage(nil, nil, nil)
		model := map[Field]string{}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			f := rapid.SampledFrom(Fields).Draw(t, "field")
			v := rapid.String().Draw(t, "value")

			before := p.Form()
			if err := p.UpdateField(string(f), v); err != nil {
				t.Fatalf("UpdateField(%q): %v", f, err)
			}
			after := p.Form()
			model[f] = v

			if after.Get(f) != v {
				t.Fatalf("field %q = %q, want %q", f, after.Get(f), v)
			}
			for _, other := range Fields {
				if other == f {
					continue
				}
				if after.Get(other) != before.Get(other) {
					t.Fatalf("editing %q changed %q from %q to %q", f, other, before.Get(other), after.Get(other))
				}
			}
		}

		for _, f := range Fields {
			if p.Form().Get(f) != model[f] {
				t.Fatalf("final %q = %q, want %q", f, p.Form().Get(f), model[f])
			}
		}
	})
}

func TestFormState_Request(t *testing.T) {
	s := FormState{}.
		With(FieldUsername, "ann").
		With(FieldEmail, "a@b.c").
		With(FieldName, "Ann").
		With(FieldPassword, "pw")

	req := s.request()
	assert.Equal(t, "ann", req.Username)
	assert.Equal(t, "a@b.c", req.Email)
	assert.Equal(t, "Ann", req.Name)
	assert.Equal(t, "pw", req.Password)
}
