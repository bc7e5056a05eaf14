package banner

import (
	"fmt"

	"rosechat/pkg/config"
)

const banner = `
██████╗  ██████╗ ███████╗███████╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔══██╗██╔═══██╗██╔════╝██╔════╝██╔════╝██║  ██║██╔══██╗╚══██╔══╝
██████╔╝██║   ██║███████╗█████╗  ██║     ███████║███████║   ██║
██╔══██╗██║   ██║╚════██║██╔══╝  ██║     ██╔══██║██╔══██║   ██║
██║  ██║╚██████╔╝███████║███████╗╚██████╗██║  ██║██║  ██║   ██║
╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// PrintWithEff prints the startup banner using the effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", eff.Addr)
	fmt.Printf("Profiles: %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}
	fmt.Printf("Config:   %s\n", src)

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("GET  /v1/ws                      - websocket chat endpoint")
	fmt.Println("POST /v1/profiles                - create a user profile")
	fmt.Println("PUT  /v1/profiles/{name}/inventory - replace a word inventory")
	fmt.Println("GET  /v1/room/messages           - current message history")
	fmt.Println("GET  /v1/room/users              - connected users snapshot")
	fmt.Println("GET  /metrics                    - prometheus metrics")

	if eff.Config != nil {
		sw := eff.Config.Sweep
		if sw.Enabled {
			cron := sw.Cron
			if cron == "" {
				cron = "0 * * * *"
			}
			fmt.Printf("\n- Sweep: enabled (cron=%s)\n", cron)
		} else {
			fmt.Println("\n- Sweep: disabled")
		}
		if eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
			fmt.Println("- TLS: configured")
		} else {
			fmt.Println("- TLS: unconfigured")
		}
	}

	fmt.Println("\n== Logs: =================================================")
}
