package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/vst3go/template/pkg/framework/config"
	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/host"
	"github.com/vst3go/template/pkg/template"
	"github.com/vst3go/template/pkg/ui/editor/headless"
	"github.com/vst3go/template/pkg/ui/window"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    window.Handle
		wantErr bool
	}{
		{in: "0", want: window.Null()},
		{in: "4096", want: window.FromRaw(4096)},
		{in: "0x1000", want: window.FromRaw(0x1000)},
		{in: "-1", wantErr: true},
		{in: "hwnd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHandle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHandle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseHandle(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSessionRun(t *testing.T) {
	tk := headless.New()
	s := &session{
		host:    host.HostFunc(func(host.Tag, host.Notice) {}),
		hostLog: debug.New(io.Discard, "host", 0),
		factory: template.Factory(template.WithConfig(config.Default()), template.WithToolkit(tk)),
		parent:  window.FromRaw(0x1000),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*pumpInterval)
	defer cancel()
	if err := s.run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	w := tk.Window()
	if w == nil {
		t.Fatal("editor never opened")
	}
	select {
	case <-w.Closed():
	case <-time.After(time.Second):
		t.Error("editor still open after release")
	}
}
