package sessionlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aulatools/conciliador/pkg/sessionlog"
)

func TestParseTopic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  sessionlog.Topic
		ok    bool
	}{
		{
			name:  "dash with session",
			input: "Redes - PEAD-A Sesion 3",
			want:  sessionlog.Topic{Curso: "Redes", Seccion: "A", Sesion: 3, HasSesion: true},
			ok:    true,
		},
		{
			name:  "en dash accented session",
			input: "Computación II – PEAD-B2 SESIÓN 12",
			want:  sessionlog.Topic{Curso: "Computación II", Seccion: "B2", Sesion: 12, HasSesion: true},
			ok:    true,
		},
		{
			name:  "slash separator no session",
			input: "Fisica / PEAD-C",
			want:  sessionlog.Topic{Curso: "Fisica", Seccion: "C"},
			ok:    true,
		},
		{
			name:  "colon separator english session",
			input: "Data Mining: PEAD-A Session 4",
			want:  sessionlog.Topic{Curso: "Data Mining", Seccion: "A", Sesion: 4, HasSesion: true},
			ok:    true,
		},
		{
			name:  "underscore pead and lowercase",
			input: "taller de tesis - pead_D sesión 1",
			want:  sessionlog.Topic{Curso: "taller de tesis", Seccion: "D", Sesion: 1, HasSesion: true},
			ok:    true,
		},
		{
			name:  "no pead marker",
			input: "Reunión de coordinación",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sessionlog.ParseTopic(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTopicKeyDefaultsSession(t *testing.T) {
	topic, ok := sessionlog.ParseTopic("Fisica / PEAD-C")
	assert.True(t, ok)
	assert.False(t, topic.HasSesion)
	assert.Equal(t, 1, topic.Key().Sesion)

	topic, ok = sessionlog.ParseTopic("Fisica / PEAD-C Sesion 9")
	assert.True(t, ok)
	assert.Equal(t, 9, topic.Key().Sesion)
}
