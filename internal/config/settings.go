package config

import "time"

// Frame pacing for the terminal front-ends.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Terminal render limits; larger terminals get a centered, bordered area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// ShutdownDisplaySeconds is how long the shutdown notice stays up before
// a session is closed.
const ShutdownDisplaySeconds = 10.0

// Inactivity (seconds without any input) for SSH sessions.
const (
	InactivityWarnUser       = 90
	InactivityDisconnectUser = 120
)

// Settings holds process-level configuration for the binaries.
type Settings struct {
	SSHHost        string
	SSHPort        string
	HostKeyPath    string
	TelemetryAddr  string
	WebHost        string
	WebPort        string
	SSHDisplayHost string
	DBPath         string
	LogLevel       string
	ShutdownWait   time.Duration
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	wait, err := GetEnvDuration("SHUTDOWN_WAIT", 15*time.Second)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		SSHHost:        GetEnv("SSH_HOST", "::"),
		SSHPort:        GetEnv("SSH_PORT", "2222"),
		HostKeyPath:    GetEnv("SSH_HOST_KEY", "/app/keys/host_key"),
		TelemetryAddr:  GetEnv("TELEMETRY_ADDR", ":8081"),
		WebHost:        GetEnv("WEB_HOST", "0.0.0.0"),
		WebPort:        GetEnv("WEB_PORT", "8080"),
		SSHDisplayHost: GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		DBPath:         GetEnv("AVIATOR_DB", ""),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		ShutdownWait:   wait,
	}, nil
}
