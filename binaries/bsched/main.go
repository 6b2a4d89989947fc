// bsched is the scheduler binary. `serve` runs the decision server a
// resource manager connects to; `simulate` replays a synthetic workload
// in-process for policy comparison.
package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hpcsim/bsched/common/endpoints"
	cerrors "github.com/hpcsim/bsched/common/errors"
	"github.com/hpcsim/bsched/common/stats"
	"github.com/hpcsim/bsched/scheduler/api"
	"github.com/hpcsim/bsched/scheduler/api/wire"
	"github.com/hpcsim/bsched/scheduler/rpc"
	"github.com/hpcsim/bsched/scheduler/server"
	"github.com/hpcsim/bsched/scheduler/sim"
)

var (
	logLevel  string
	statsAddr string

	serveAddr string
	policy    string
	encoding  string

	simNumJobs         int
	simPlatformSize    int
	simMaxWalltime     int
	simMaxInterarrival int
	simSeed            int64
	simRate            float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bsched",
		Short: "bsched is a batch-job scheduler for simulated platforms",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return cerrors.NewError(err, cerrors.InvalidConfigExitCode)
			}
			log.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&statsAddr, "stats_addr", "", "http addr for stats endpoints, empty disables")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve scheduling decisions to a resource manager",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:9090", "tcp addr to listen on")
	serveCmd.Flags().StringVar(&policy, "policy", server.PolicyEasy, "allocation policy: fcfs, easy, conservative, best-contiguous")
	serveCmd.Flags().StringVar(&encoding, "encoding", "json", "message encoding: json or binary")
	rootCmd.AddCommand(serveCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "replay a synthetic workload and report makespan",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVar(&policy, "policy", server.PolicyEasy, "allocation policy: fcfs, easy, conservative, best-contiguous")
	simulateCmd.Flags().IntVar(&simNumJobs, "num_jobs", 100, "number of jobs to generate")
	simulateCmd.Flags().IntVar(&simPlatformSize, "platform_size", 16, "number of resources")
	simulateCmd.Flags().IntVar(&simMaxWalltime, "max_walltime", 20, "max job walltime, in simulation units")
	simulateCmd.Flags().IntVar(&simMaxInterarrival, "max_interarrival", 2, "max gap between submissions, 0 submits all at time zero")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "workload generator seed")
	simulateCmd.Flags().Float64Var(&simRate, "rate", 0, "decision cycles per second, 0 runs unpaced")
	rootCmd.AddCommand(simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(exitCode(err))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	stat := stats.DefaultStatsReceiver().Scope("bsched")
	startStatsServer(stat)

	flags, err := formatFlags(encoding)
	if err != nil {
		return err
	}
	handler, err := api.NewHandler(policy, flags, stat.Scope("sched"), server.LoggingListener())
	if err != nil {
		return err
	}
	defer handler.Close()

	rpcServer := rpc.NewServer(handler, stat.Scope("rpc"))
	if err := rpcServer.Serve(serveAddr); err != nil {
		return cerrors.NewError(err, cerrors.TransportFailureExitCode)
	}
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	stat := stats.DefaultStatsReceiver().Scope("bsched")
	startStatsServer(stat)

	workload, err := sim.GenerateWorkload(sim.WorkloadConfig{
		NumJobs:         simNumJobs,
		PlatformSize:    simPlatformSize,
		MaxWalltime:     simMaxWalltime,
		MaxInterarrival: simMaxInterarrival,
		Seed:            simSeed,
	})
	if err != nil {
		return cerrors.NewError(err, cerrors.InvalidConfigExitCode)
	}

	simulator, err := sim.NewSimulator(policy, stat.Scope("sched"), simRate)
	if err != nil {
		return cerrors.NewError(err, cerrors.InvalidConfigExitCode)
	}
	result, err := simulator.Run(context.Background(), simPlatformSize, workload)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"policy":   policy,
		"makespan": result.Makespan,
		"started":  result.Started,
		"rejected": result.Rejected,
		"cycles":   result.Cycles,
	}).Info("Simulation result")
	return nil
}

func startStatsServer(stat stats.StatsReceiver) {
	if statsAddr == "" {
		return
	}
	go func() {
		if err := endpoints.NewStatsServer(statsAddr, stat).Serve(); err != nil {
			log.WithFields(log.Fields{"err": err}).Error("Stats server failed")
		}
	}()
}

func formatFlags(encoding string) (uint32, error) {
	switch encoding {
	case "json":
		return wire.FormatJSON, nil
	case "binary":
		return wire.FormatBinary, nil
	default:
		return 0, cerrors.NewError(errors.Errorf("unrecognized encoding: %q", encoding), cerrors.InvalidConfigExitCode)
	}
}

func exitCode(err error) int {
	if e, ok := err.(*cerrors.ExitCodeError); ok {
		return int(e.GetExitCode())
	}
	return 1
}
