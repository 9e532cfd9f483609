package main

import (
	"flag"
	"log"
	"os"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"

	"github.com/Rouxelp/xfer"
)

// This tool only reads a scenario file, computes the requested transfer and
// exports the resulting trajectory.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "transfer scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log the transfer computation")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "scenario", scenario)

	bodyName := viper.GetString("general.body")
	if bodyName == "" {
		bodyName = "Earth"
	}
	body, err := xfer.BodyFromName(bodyName)
	if err != nil {
		log.Fatalf("[conf] %s", err)
	}

	ids := xfer.NewSequentialIDs(1)
	initial := confReadOrbit("initial", ids, body)
	target := confReadOrbit("target", ids, body)
	if verbose {
		klog.Log("initial", initial.String(), "target", target.String())
	}

	registry := xfer.NewRegistry()
	if verbose {
		registry.Register(xfer.NewHohmann(klog))
	}

	transferType := viper.GetString("transfer.type")
	if transferType == "" {
		transferType = "hohmann"
	}
	strategy, err := registry.Resolve(transferType)
	if err != nil {
		log.Fatalf("[conf] %s", err)
	}

	samples := viper.GetInt("transfer.samples")
	if samples <= 0 {
		samples = xfer.ConfiguredSampleCount()
	}

	traj, err := strategy.Compute(initial, target, samples)
	if err != nil {
		log.Fatalf("transfer failed: %s", err)
	}
	traj.ID = ids.Next()
	traj.Name = viper.GetString("general.name")
	klog.Log("Δv1", traj.ΔV1, "Δv2", traj.ΔV2, "tofHours", traj.TOFHours(), "points", len(traj.Points))

	format := viper.GetString("transfer.format")
	if format == "" {
		format = "json"
	}
	path, err := xfer.ExportTrajectory(traj, format)
	if err != nil {
		log.Fatalf("export failed: %s", err)
	}
	klog.Log("exported", path)
}

// confReadOrbit reads one orbit section of the scenario file.
func confReadOrbit(section string, ids xfer.IDAllocator, body xfer.CelestialBody) *xfer.Orbit {
	o, err := xfer.NewOrbit(ids,
		viper.GetFloat64(section+".perigee"),
		viper.GetFloat64(section+".apogee"),
		viper.GetFloat64(section+".inclination"),
		viper.GetFloat64(section+".raan"),
		viper.GetFloat64(section+".argp"),
		viper.GetFloat64(section+".nu"),
		body)
	if err != nil {
		log.Fatalf("[conf] %s orbit: %s", section, err)
	}
	return o
}
