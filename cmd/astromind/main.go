package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/astromind/internal/app"
	"github.com/ayusman/astromind/internal/fatigue"
	"github.com/ayusman/astromind/internal/server"
	"github.com/ayusman/astromind/internal/store"
	"github.com/ayusman/astromind/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("Astromind - Pilot Fatigue Monitor")

	// Initialize the data directory and store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".astromind")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "astromind.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Start the monitoring pipeline
	a := app.New(app.Config{
		Store:    st,
		DataDir:  dataDir,
		CameraID: 0,
		Fatigue:  fatigue.DefaultConfig(),
	})
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start monitoring: %v", err)
	}

	// Configure and start the server
	cfg := server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		App:       a,
	}
	if cfg.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", cfg.StaticDir)
	}

	srv := server.New(cfg)
	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Run the tray until quit
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnDashboard(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	t.OnEndMission(func() {
		report, err := a.EndSession()
		if err != nil {
			log.Printf("End mission: %v", err)
			return
		}
		fmt.Print(report.Render())
	})
	t.OnQuit(a.Stop)
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.astromind/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".astromind", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
