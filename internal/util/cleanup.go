package util

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SetupInterruptHandler exits with status 1 on SIGINT/SIGTERM, removing
// outputDir first if nothing was written to it yet. The returned func
// stops listening.
func SetupInterruptHandler(outputDir string) (stop func()) {
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sig:
		case <-done:
			return
		}
		fmt.Println("\nInterrupt received. Cleaning up...")

		RemoveIfEmpty(outputDir)
		fmt.Println("\nExiting due to interrupt.")

		os.Exit(1)
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}

func RemoveIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return false
	}

	if err := os.Remove(dir); err != nil {
		return false
	}
	fmt.Printf("Removed empty output folder: %s\n", dir)
	return true
}

// RemoveFiles deletes every file it can and reports the failures together.
func RemoveFiles(files []string) error {
	var errs []error
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
