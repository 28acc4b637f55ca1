package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Logger is a key/value logger over zap. Values whose keys look like
// credentials are replaced and user identifiers are hashed before they
// reach the encoder.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	scrub         *scrubber
}

// New builds a logger for the given LOG_MODE. "test" and "nop" discard output.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop", "silent":
		return Nop(), nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: z.Sugar(), scrub: scrubberFromEnv()}, nil
}

func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), scrub: scrubberFromEnv()}
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.scrub.apply(kv)...)
}
func (l *Logger) Info(msg string, kv ...interface{}) {
	l.SugaredLogger.Infow(msg, l.scrub.apply(kv)...)
}
func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.scrub.apply(kv)...)
}
func (l *Logger) Error(msg string, kv ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.scrub.apply(kv)...)
}
func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.scrub.apply(kv)...)
}

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.scrub.apply(kv)...), scrub: l.scrub}
}

const redacted = "[REDACTED]"

var (
	secretKeys = []string{"token", "authorization", "password", "secret", "api_key", "apikey", "email"}
	idKeys     = []string{"user_id", "student_id", "actor_id"}
)

// scrubber is nil when LOG_REDACTION_ENABLED is off; a nil scrubber passes
// pairs through untouched.
type scrubber struct {
	salt string
}

func scrubberFromEnv() *scrubber {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		return nil
	}
	return &scrubber{salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
}

func (s *scrubber) apply(kv []interface{}) []interface{} {
	if s == nil || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	// a trailing key without a value is left for zap to report.
	for i := 0; i+1 < len(out); i += 2 {
		key := fmt.Sprint(out[i])
		out[i] = key
		out[i+1] = s.value(strings.ToLower(strings.TrimSpace(key)), out[i+1])
	}
	return out
}

func (s *scrubber) value(key string, val interface{}) interface{} {
	switch {
	case key == "":
		return val
	case containsAny(key, secretKeys):
		return redacted
	case containsAny(key, idKeys):
		return s.hash(val)
	}
	switch v := val.(type) {
	case map[string]interface{}:
		nested := make(map[string]interface{}, len(v))
		for k, inner := range v {
			nested[k] = s.value(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return nested
	case string:
		if looksLikeJWT(v) {
			return redacted
		}
	}
	return val
}

func (s *scrubber) hash(val interface{}) string {
	var raw string
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		raw = v
	case fmt.Stringer:
		raw = v.String()
	default:
		raw = fmt.Sprint(v)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(key string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(key, n) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}
