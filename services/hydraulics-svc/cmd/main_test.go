package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/apperror"
	"wellflow/services/hydraulics-svc/internal/hydraulics"
)

func TestRun_Methods(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"methods"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var methods []hydraulics.MethodInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &methods))
	assert.Len(t, methods, len(hydraulics.AllMethods()))
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"help"}, {"-h"}} {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), args, &stdout, &stderr)
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr.String(), "usage: hydraulics-svc")
		assert.Empty(t, stdout.String())
	}
}

func TestExit(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{name: "nil", err: nil, wantCode: 0},
		{name: "help", err: flag.ErrHelp, wantCode: 2},
		{
			name:     "warning",
			err:      apperror.NewWarning(apperror.CodeTargetNotConverged, "target not reached"),
			wantCode: 0,
			wantOut:  "warning: ",
		},
		{
			name:     "app error with details",
			err:      apperror.New(apperror.CodeNotFound, "run not found").WithDetails("id", "42"),
			wantCode: 1,
			wantOut:  `"id":"42"`,
		},
		{name: "plain", err: errors.New("boom"), wantCode: 1, wantOut: "error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.wantCode, exit(&stderr, tt.err))
			if tt.wantOut != "" {
				assert.Contains(t, stderr.String(), tt.wantOut)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"xlsx", "pdf"}, splitList("xlsx, pdf,"))
}

func TestParseMethods(t *testing.T) {
	assert.Nil(t, parseMethods(""))
	assert.Equal(t,
		[]hydraulics.Method{hydraulics.MethodGray, hydraulics.MethodBeggsBrill},
		parseMethods("Gray, beggs-brill"),
	)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"version": 1}))
	assert.Equal(t, "{\n  \"version\": 1\n}\n", buf.String())
}
