package xfer

import (
	"os"
	"sync"

	"github.com/spf13/viper"
)

var (
	cfgOnce sync.Once
	config  _xferconfig
)

// _xferconfig is a "hidden" struct, just use `xferConfig`.
type _xferconfig struct {
	outputDir   string
	sampleCount int
}

// xferConfig returns the package configuration, loaded exactly once even
// under concurrent first use. When the XFER_CONFIG environment variable
// names a directory holding a conf.toml, its values override the defaults;
// otherwise the defaults apply as-is, so the library itself never requires
// any environment.
func xferConfig() _xferconfig {
	cfgOnce.Do(func() {
		conf := _xferconfig{outputDir: ".", sampleCount: DefaultSampleCount}
		if confPath := os.Getenv("XFER_CONFIG"); confPath != "" {
			v := viper.New()
			v.SetConfigName("conf")
			v.AddConfigPath(confPath)
			if err := v.ReadInConfig(); err == nil {
				if dir := v.GetString("general.output_path"); dir != "" {
					conf.outputDir = dir
				}
				if n := v.GetInt("transfer.default_sample_count"); n > 0 {
					conf.sampleCount = n
				}
			}
		}
		config = conf
	})
	return config
}

// OutputDir returns the directory where export helpers write their files.
func OutputDir() string {
	return xferConfig().outputDir
}

// ConfiguredSampleCount returns the configured default number of trajectory
// samples.
func ConfiguredSampleCount() int {
	return xferConfig().sampleCount
}
