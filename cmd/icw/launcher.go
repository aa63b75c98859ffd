package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const launcherIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <circle cx="50" cy="50" r="48" fill="#1a1a2e" stroke="#3b82f6" stroke-width="2"/>
  <text x="50" y="60" font-size="32" fill="white" text-anchor="middle" font-family="sans-serif" font-weight="bold">ICW</text>
</svg>
`

const launcherEntry = `[Desktop Entry]
Version=1.0
Type=Application
Name=ICW Wallet
Comment=ICP Wallet for ICRC-1 tokens (ckBTC, ckETH, ICP, ckUSDC, ckUSDT)
Exec=icw ui
Icon=%s
Categories=Finance;Utility;
Terminal=false
StartupNotify=true
Keywords=crypto;wallet;bitcoin;ethereum;icp;
`

// cmdInstallLauncher writes a freedesktop.org launcher so the web UI can
// be started from the applications menu.
func cmdInstallLauncher() {
	if runtime.GOOS != "linux" {
		fatal(fmt.Errorf("desktop launcher is only supported on Linux"))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fatal(err)
	}
	appsDir := filepath.Join(home, ".local", "share", "applications")
	iconsDir := filepath.Join(home, ".local", "share", "icons", "hicolor", "scalable", "apps")

	for _, dir := range []string{appsDir, iconsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatal(err)
		}
	}

	iconPath := filepath.Join(iconsDir, "icw.svg")
	if err := os.WriteFile(iconPath, []byte(launcherIcon), 0o644); err != nil {
		fatal(err)
	}

	desktopPath := filepath.Join(appsDir, "icw.desktop")
	entry := fmt.Sprintf(launcherEntry, iconPath)
	if err := os.WriteFile(desktopPath, []byte(entry), 0o644); err != nil {
		fatal(err)
	}

	// Best effort; not all distributions ship this tool.
	_ = exec.Command("update-desktop-database", appsDir).Run()

	emit(map[string]interface{}{
		"installed":    true,
		"desktop_file": desktopPath,
		"icon":         iconPath,
	})
}
