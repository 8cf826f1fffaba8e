package logger

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
	assert.Equal(t, "\"a***@example.com", RedactEmail(`"a@b"@example.com`))
}

func TestRedactHook_MasksFieldsAndMessage(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.AddHook(RedactHook{})
	hook := test.NewLocal(l)

	l.WithFields(logrus.Fields{
		"email":  "john.doe@example.com",
		"detail": "lookup failed for jane.roe@example.org",
		"count":  3,
	}).Warn("subscribe failed for john.doe@example.com")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "jo***@example.com", entry.Data["email"])
	assert.Equal(t, "lookup failed for ja***@example.org", entry.Data["detail"])
	assert.Equal(t, 3, entry.Data["count"])
	assert.Equal(t, "subscribe failed for jo***@example.com", entry.Message)
}

func TestNew_ParsesLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(Options{Level: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Options{Level: "bogus"}).GetLevel())
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, logrus.FieldLogger(Default()), OrDefault(nil))

	l, _ := test.NewNullLogger()
	assert.Equal(t, logrus.FieldLogger(l), OrDefault(l))
}

func TestKV_SkipsNonStringKeys(t *testing.T) {
	fields := kv([]interface{}{"a", 1, 2, "b", "c"})
	assert.Equal(t, logrus.Fields{"a": 1}, fields)
}
