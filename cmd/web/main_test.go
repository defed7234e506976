package main

import (
	"context"
	"testing"

	"github.com/narvanalabs/scalingo-dashboard/internal/store/memory"
	"github.com/narvanalabs/scalingo-dashboard/pkg/config"
	"github.com/narvanalabs/scalingo-dashboard/pkg/logger"
)

func TestOpenStoreWithoutDSNUsesMemory(t *testing.T) {
	st, err := openStore(&config.Config{}, logger.Discard())
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer st.Close()

	if _, ok := st.(*memory.Store); !ok {
		t.Fatalf("openStore() = %T, want *memory.Store", st)
	}
	if err := st.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
