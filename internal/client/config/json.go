package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/zkvault/internal/flagx"
	"github.com/dmitrijs2005/zkvault/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Absent fields leave
// the corresponding Config values untouched.
type JsonConfig struct {
	RPCEndpoint        *string         `json:"rpc_endpoint"`
	ProgramID          *string         `json:"program_id"`
	ComputeProgramID   *string         `json:"compute_program_id"`
	ProvingServiceURL  *string         `json:"proving_service_url"`
	CoordinatorSecret  *string         `json:"coordinator_secret"`
	CoordinatorTimeout *timex.Duration `json:"coordinator_timeout"`
	StorePath          *string         `json:"store_path"`
	WalletPath         *string         `json:"wallet_path"`
	LogLevel           *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config. It is a
// no-op when no file is given.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.RPCEndpoint, jc.RPCEndpoint)
	setString(&cfg.ProgramID, jc.ProgramID)
	setString(&cfg.ComputeProgramID, jc.ComputeProgramID)
	setString(&cfg.ProvingServiceURL, jc.ProvingServiceURL)
	setString(&cfg.CoordinatorSecret, jc.CoordinatorSecret)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.WalletPath, jc.WalletPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.CoordinatorTimeout != nil {
		cfg.CoordinatorTimeout = jc.CoordinatorTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
