package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/chinmay1088/helius-tools/api"
)

// printJSON writes v indented to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// spinner shows an indeterminate progress bar while a call blocks
func spinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// withSpinner runs fn while a spinner is shown on stderr
func withSpinner(description string, fn func() error) error {
	bar := spinner(description)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	err := fn()
	close(done)
	bar.Finish()
	return err
}

func confirm(prompt string) bool {
	fmt.Printf("%s (y/n): ", prompt)

	var response string
	fmt.Scanln(&response)

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func truncateAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

func explorerURL(sig, cluster string) string {
	if cluster == api.ClusterDevnet {
		return fmt.Sprintf("https://solscan.io/tx/%s?cluster=devnet", sig)
	}
	return fmt.Sprintf("https://solscan.io/tx/%s", sig)
}

// splitList splits comma separated flag values and drops empty entries
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
