package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/officesim-go/internal/adapters/calendar"
	"github.com/andrescamacho/officesim-go/internal/adapters/catalogfile"
	"github.com/andrescamacho/officesim-go/internal/adapters/grpc"
	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/adapters/persistence"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/intents"
	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	placementCmd "github.com/andrescamacho/officesim-go/internal/application/placement/commands"
	placementQuery "github.com/andrescamacho/officesim-go/internal/application/placement/queries"
	"github.com/andrescamacho/officesim-go/internal/application/scheduler"
	staffingCmd "github.com/andrescamacho/officesim-go/internal/application/staffing/commands"
	"github.com/andrescamacho/officesim-go/internal/application/upkeep"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/config"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/database"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/officesim-go/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (default: search ./, ./configs, /etc/officesim)")
	seedAgents := flag.Int("seed-agents", 0, "Hire this many agents at startup when the office is empty")
	flag.Parse()

	fmt.Println("OfficeSim Daemon v0.1.0")
	fmt.Println("=======================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg, *seedAgents); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config, seedAgents int) error {
	// 1. Logging
	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer logCloser.Close()

	instanceID := utils.GenerateInstanceID("officesim")
	logger = logger.With("instance_id", instanceID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	// 2. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 3. Room catalog
	catalog, err := catalogfile.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load room catalog: %w", err)
	}
	fmt.Printf("Room catalog loaded (%d rooms)\n", len(catalog.Rooms()))

	// 4. Clock, randomness, business hours
	clock := shared.NewRealClock()
	var random *shared.LockedRandom
	if cfg.Simulation.Seed != 0 {
		random = shared.NewSeededRandom(cfg.Simulation.Seed)
	} else {
		random = shared.NewRandom()
	}

	var hours common.BusinessHours = calendar.AlwaysOpen()
	if !cfg.BusinessHours.AlwaysOpen {
		officeHours, err := calendar.New(cfg.BusinessHours)
		if err != nil {
			return fmt.Errorf("invalid business hours: %w", err)
		}
		hours = officeHours
	}

	// 5. Repositories
	retryPolicy := persistence.RetryPolicyFromConfig(cfg.Retry)
	agentRepo := persistence.NewGormAgentRepository(db, clock, retryPolicy)
	sessionRepo := persistence.NewGormTrainingSessionRepository(db, retryPolicy)
	activityRepo := persistence.NewGormActivityLogRepository(db, clock, retryPolicy)

	// 6. Metrics
	commandCollector := metrics.NewCommandMetricsCollector()
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		placementCollector := metrics.NewPlacementMetricsCollector()
		if err := placementCollector.Register(); err != nil {
			return fmt.Errorf("failed to register placement metrics: %w", err)
		}
		metrics.SetGlobalPlacementCollector(placementCollector)
		occupancyCollector := metrics.NewOccupancyMetricsCollector()
		if err := occupancyCollector.Register(); err != nil {
			return fmt.Errorf("failed to register occupancy metrics: %w", err)
		}
		metrics.SetGlobalOccupancyCollector(occupancyCollector)
		fmt.Println("Metrics collectors registered")
	}

	// 7. Placement services
	journal := placement.NewJournal(activityRepo, sessionRepo, clock)
	resolver := domainPlacement.NewResolver(catalog, random)
	placer := placement.NewPlacer(agentRepo, catalog, resolver, journal)

	// 8. Mediator
	med := mediator.NewMediator()
	med.RegisterMiddleware(mediator.LoggingMiddleware())
	med.RegisterMiddleware(mediator.AgentGuardMiddleware())
	if cfg.Metrics.Enabled {
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
	}
	if err := registerHandlers(med, agentRepo, activityRepo, placer, catalog, clock, random); err != nil {
		return err
	}
	fmt.Println("Mediator handlers registered")

	if seedAgents > 0 {
		if err := seedIfEmpty(ctx, med, agentRepo, seedAgents); err != nil {
			return err
		}
	}

	// 9. Scheduler
	sched := scheduler.New(clock, scheduler.NewContext())
	steps := scheduler.Steps{
		Presence:        upkeep.NewPresence(agentRepo, placer, hours),
		StuckRepair:     upkeep.NewStuckRepair(agentRepo, placer),
		CapacitySweep:   upkeep.NewCapacitySweep(agentRepo, placer, random),
		Arrivals:        upkeep.NewArrivals(agentRepo, placer, cfg.Simulation.WalkDuration),
		TrainingTimeout: upkeep.NewTrainingTimeout(agentRepo, sessionRepo, placer),
	}
	policy := intents.NewRoutinePolicy(random, cfg.Simulation.BreakDuration, cfg.Simulation.MeetingDuration,
		intents.WithTrainingEligibility(cfg.Simulation.TrainingEligibility))
	limiter := rate.NewLimiter(rate.Limit(cfg.Simulation.DecisionRate), cfg.Simulation.DecisionBurst)

	sched.Every(cfg.Simulation.TickInterval, scheduler.NewOrchestrator(steps, agentRepo, placer, policy, limiter, cfg.Simulation.BatchSize))
	sched.Every(cfg.Simulation.MeetingCallerInterval, scheduler.NewMeetingCaller(med, agentRepo, random))
	sched.Every(cfg.Simulation.OccupancyReporterInterval, scheduler.NewOccupancyReporter(agentRepo, catalog))
	sched.Every(cfg.Simulation.LogPruneInterval, scheduler.NewLogPruner(activityRepo, cfg.Simulation.ActivityLogRetention))

	// 10. gRPC server
	status := func(ctx context.Context) (uint64, int) {
		agents, err := agentRepo.List(ctx)
		if err != nil {
			return sched.Context().Ticks(), 0
		}
		return sched.Context().Ticks(), len(agents)
	}
	daemonServer, err := grpc.NewDaemonServer(med, cfg.Daemon.SocketPath, instanceID, status, logger)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return daemonServer.Serve(gctx) })

	if cfg.Metrics.Enabled {
		health := func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		metricsServer, err := metrics.NewServer(cfg.Metrics, health, logger)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		g.Go(func() error { return metricsServer.Run(gctx) })
	}

	fmt.Printf("\n✓ Daemon is ready on %s\n", cfg.Daemon.SocketPath)
	fmt.Println("Press Ctrl+C to stop")

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("daemon error: %w", err)
		}
	case <-ctx.Done():
		fmt.Println("\nShutting down...")
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("daemon error: %w", err)
			}
		case <-time.After(cfg.Daemon.ShutdownTimeout):
			return fmt.Errorf("shutdown timed out after %s", cfg.Daemon.ShutdownTimeout)
		}
	}

	fmt.Println("Daemon stopped")
	return nil
}

func registerHandlers(
	med mediator.Mediator,
	agentRepo *persistence.GormAgentRepository,
	activityRepo *persistence.GormActivityLogRepository,
	placer *placement.Placer,
	catalog *facility.Catalog,
	clock shared.Clock,
	random shared.RandomSource,
) error {
	// Placement commands
	requestMoveHandler := placementCmd.NewRequestMoveHandler(placer)
	if err := mediator.RegisterHandler[*placementCmd.RequestMoveCommand](med, requestMoveHandler); err != nil {
		return fmt.Errorf("failed to register RequestMove handler: %w", err)
	}

	reportActivityHandler := placementCmd.NewReportActivityHandler(placer, agentRepo)
	if err := mediator.RegisterHandler[*placementCmd.ReportActivityCommand](med, reportActivityHandler); err != nil {
		return fmt.Errorf("failed to register ReportActivity handler: %w", err)
	}

	// Placement queries
	agentSnapshotHandler := placementQuery.NewAgentSnapshotHandler(agentRepo)
	if err := mediator.RegisterHandler[*placementQuery.AgentSnapshotQuery](med, agentSnapshotHandler); err != nil {
		return fmt.Errorf("failed to register AgentSnapshot handler: %w", err)
	}

	roomOccupancyHandler := placementQuery.NewRoomOccupancyHandler(agentRepo, catalog)
	if err := mediator.RegisterHandler[*placementQuery.RoomOccupancyQuery](med, roomOccupancyHandler); err != nil {
		return fmt.Errorf("failed to register RoomOccupancy handler: %w", err)
	}
	if err := mediator.RegisterHandler[*placementQuery.RoomHasSpaceQuery](med, roomOccupancyHandler); err != nil {
		return fmt.Errorf("failed to register RoomHasSpace handler: %w", err)
	}

	listRoomsHandler := placementQuery.NewListRoomsHandler(agentRepo, catalog)
	if err := mediator.RegisterHandler[*placementQuery.ListRoomsQuery](med, listRoomsHandler); err != nil {
		return fmt.Errorf("failed to register ListRooms handler: %w", err)
	}

	recentActivityHandler := placementQuery.NewRecentActivityHandler(activityRepo)
	if err := mediator.RegisterHandler[*placementQuery.RecentActivityQuery](med, recentActivityHandler); err != nil {
		return fmt.Errorf("failed to register RecentActivity handler: %w", err)
	}

	// Staffing
	seedAgentsHandler := staffingCmd.NewSeedAgentsHandler(agentRepo, catalog, clock, random)
	if err := mediator.RegisterHandler[*staffingCmd.SeedAgentsCommand](med, seedAgentsHandler); err != nil {
		return fmt.Errorf("failed to register SeedAgents handler: %w", err)
	}

	return nil
}

// seedIfEmpty hires count agents on a fresh database
func seedIfEmpty(ctx context.Context, med mediator.Mediator, agentRepo *persistence.GormAgentRepository, count int) error {
	existing, err := agentRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}
	if len(existing) > 0 {
		fmt.Printf("Office already staffed (%d agents), skipping seed\n", len(existing))
		return nil
	}

	resp, err := mediator.Send[*staffingCmd.SeedAgentsResponse](ctx, med, &staffingCmd.SeedAgentsCommand{Count: count})
	if err != nil {
		return fmt.Errorf("failed to seed agents: %w", err)
	}
	fmt.Printf("Hired %d agents\n", len(resp.Created))
	return nil
}
