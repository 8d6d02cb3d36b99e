package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = func() LogLevel {
	if v, ok := os.LookupEnv("REVIEWD_HTTP_LOG"); ok {
		return parseLevel(v)
	}
	return LevelInfo
}()

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logEvent writes msg with fields when the request's level admits lvl. A nil request
// uses the process default.
func logEvent(r *http.Request, lvl LogLevel, msg string, fields map[string]any) {
	want := defaultLogLevel
	if r != nil {
		want = requestLogLevel(r)
	}
	if want < lvl {
		return
	}
	if r != nil {
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			if fields == nil {
				fields = map[string]any{}
			}
			fields["request_id"] = rid
		}
	}
	if zlog != nil {
		var ev *zerolog.Event
		switch lvl {
		case LevelError:
			ev = zlog.Error()
		case LevelDebug:
			ev = zlog.Debug()
		default:
			ev = zlog.Info()
		}
		ev.Fields(fields).Msg(msg)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fmt.Sprint(fields[k]))
	}
	log.Print(b.String())
}
