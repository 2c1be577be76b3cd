package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeReading(t *testing.T) {
	b, err := Encode(MsgReading, Reading{X: 0.5, Y: -0.25})
	require.NoError(t, err)

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, MsgReading, env.T)

	rd, err := DecodePayload[Reading](env)
	require.NoError(t, err)
	assert.Equal(t, Reading{X: 0.5, Y: -0.25}, rd)
}

func TestEncodeRejectsEmpty(t *testing.T) {
	_, err := Encode("", Reading{})
	assert.Error(t, err)

	_, err = Encode(MsgState, nil)
	assert.Error(t, err)
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	for name, frame := range map[string]string{
		"empty":        "",
		"not json":     "{",
		"missing type": `{"p": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(frame))
			assert.Error(t, err)
		})
	}
}

func TestDecodePayloadEmpty(t *testing.T) {
	_, err := DecodePayload[Hello](Envelope{T: MsgHello})
	assert.Error(t, err)
}
