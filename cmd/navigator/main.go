package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/signalsfoundry/globe-navigator/core"
	"github.com/signalsfoundry/globe-navigator/frameloop"
	"github.com/signalsfoundry/globe-navigator/internal/logging"
	"github.com/signalsfoundry/globe-navigator/internal/observability"
	"github.com/signalsfoundry/globe-navigator/internal/recorder"
	"github.com/signalsfoundry/globe-navigator/model"
	"github.com/signalsfoundry/globe-navigator/world"
)

// ISS sample TLE used for the demo satellite body.
const (
	issTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func main() {
	duration := flag.Duration("duration", 60*time.Second, "total session duration")
	frame := flag.Duration("frame", 16*time.Millisecond, "frame interval")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time)")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	logFile := flag.String("log-file", "", "write logs to this rotating file instead of stdout")
	worldPath := flag.String("world", "", "JSON world scenario; built-in Earth/Moon/ISS when empty")
	recordPath := flag.String("record", "", "record camera poses to this file")
	replayPath := flag.String("replay", "", "replay camera poses from this file instead of flying")
	dynamicSpeed := flag.Bool("dynamic-speed", true, "enable altitude-adaptive speed")
	dynamicClip := flag.Bool("dynamic-clip", true, "enable altitude-adaptive clip planes")
	flag.Parse()

	log := buildLogger(*logFile)
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewNavCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	// ==== World setup ====

	store := world.NewStore()
	tleFor := func(b *model.BodyDefinition) (string, string) {
		if b.ID == "iss" {
			return issTLE1, issTLE2
		}
		return "", ""
	}
	if *worldPath != "" {
		scn, lerr := loadWorld(store, *worldPath)
		if lerr != nil {
			log.Error(ctx, "failed to load world scenario", logging.String("path", *worldPath), logging.String("error", lerr.Error()))
			os.Exit(1)
		}
		tleFor = scn.TLELines
		log.Info(ctx, "loaded world scenario", logging.String("path", *worldPath), logging.Int("bodies", len(scn.BodyIDs)))
	} else {
		for _, b := range defaultBodies() {
			if err := store.AddBody(b); err != nil {
				log.Error(ctx, "failed to add body", logging.String("id", b.ID), logging.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	motion := world.NewMotionEngine(
		world.WithTLEFetcher(tleFor),
		world.WithPositionUpdater(store),
	)
	bodies := store.ListBodies()
	for i := range bodies {
		if err := motion.AddBody(&bodies[i]); err != nil {
			log.Error(ctx, "failed to track body motion", logging.String("id", bodies[i].ID), logging.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// ==== Navigation setup ====

	// Camera starts 400 km above the equator looking along the surface.
	startPos := mgl64.Vec3{core.WGS84SemiMajorM + 4e5, 0, 0}
	startPose := model.Pose{Position: model.PositionFromVec(startPos), Yaw: 90}

	georef := core.NewWGS84Georeference(startPos)
	scene := core.NewGlobeScene(store, georef)
	if geoid, gerr := core.NewGeoidElevation(8192, 500); gerr == nil {
		scene.Elevation = geoid
	} else {
		log.Warn(ctx, "geoid elevation unavailable; flying over a smooth ellipsoid", logging.String("error", gerr.Error()))
	}

	cfg := core.Config{
		MovementEnabled: true,
		RotationEnabled: true,
		DynamicSpeed:    core.DynamicSpeedConfig{Enabled: *dynamicSpeed},
		DynamicClip:     core.DynamicClipConfig{Enabled: *dynamicClip, ReferenceUnit: model.UnitMetres},
	}

	registry := core.NewRegistry()
	var active core.Controller
	var freeFly *core.FreeFlyController
	if *replayPath != "" {
		frames, rerr := loadReplay(*replayPath)
		if rerr != nil {
			log.Error(ctx, "failed to load replay", logging.String("path", *replayPath), logging.String("error", rerr.Error()))
			os.Exit(1)
		}
		active = core.NewScriptedController(frames)
		log.Info(ctx, "replaying recorded flight", logging.String("path", *replayPath), logging.Int("samples", len(frames)))
	} else {
		freeFly = core.NewFreeFlyController(cfg, startPose, georef, scene, store,
			core.WithLogger(log),
			core.WithMetrics(collector),
		)
		active = freeFly
	}
	handle := registry.Register(active)
	defer handle.Release()

	trackers := make([]*core.Tracker, 0, len(bodies))
	for _, b := range bodies {
		trackers = append(trackers, core.NewTracker(b.ID, store, registry))
	}

	var rec *recorder.Recorder
	if *recordPath != "" {
		f, ferr := os.Create(*recordPath)
		if ferr != nil {
			log.Error(ctx, "failed to open recording file", logging.String("path", *recordPath), logging.String("error", ferr.Error()))
			os.Exit(1)
		}
		defer f.Close()
		rec = recorder.New(f)
	}

	// ==== Frame loop ====

	mode := frameloop.RealTime
	if *accelerated {
		mode = frameloop.Accelerated
	}
	start := time.Now().UTC()
	loop := frameloop.NewLoop(start, *frame, mode)
	input := flightProfile(start)

	loop.AddListener(func(now time.Time, dt float64) {
		if err := motion.UpdatePositions(now); err != nil {
			frameCtx, frameLog := logging.WithFrameLogger(ctx, log, loop.FrameCount())
			frameLog.Warn(frameCtx, "motion update failed", logging.String("error", err.Error()))
		}
	})
	loop.AddListener(func(now time.Time, dt float64) {
		_, span := observability.StartFrameSpan(ctx, loop.FrameCount())
		defer span.End()

		began := time.Now()
		active.Update(input.Poll(), dt)
		for _, t := range trackers {
			t.Update()
		}
		if freeFly != nil {
			freeFly.AdjustClipPlanes()
		}
		collector.ObserveFrame(time.Since(began))
	})
	loop.AddListener(func(now time.Time, dt float64) {
		if freeFly != nil {
			collector.SetSpeedState(freeFly.MaxSpeed(), freeFly.PreMultiplierSpeed(), freeFly.SpeedMultiplier())
			collector.SetClipPlanes(freeFly.NearClip(), freeFly.FarClip())
		}
		collector.SetInRangeBodies(active.InRange().Len())

		if rec != nil {
			if err := rec.Record(now.Sub(start).Seconds(), active.Pose()); err != nil {
				log.Warn(ctx, "recording failed", logging.String("error", err.Error()))
			}
		}

		if loop.FrameCount()%60 == 0 {
			printStatus(loop.FrameCount(), active, freeFly)
		}
	})

	fmt.Printf("Starting navigator: duration=%s, frame=%s, mode=%v\n", *duration, *frame, mode)
	done := loop.Start(*duration)
	<-done
	fmt.Println("Session complete.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func buildLogger(logFile string) logging.Logger {
	if logFile == "" {
		return logging.NewFromEnv()
	}
	return logging.NewWithWriter(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	}, &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	})
}

func serveMetrics(addr string, collector *observability.NavCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func defaultBodies() []*model.BodyDefinition {
	return []*model.BodyDefinition{
		{
			ID:            "earth",
			Name:          "Earth",
			MaxRadius:     core.WGS84SemiMajorM,
			SurfaceRadius: core.WGS84SemiMajorM,
			Unit:          model.UnitMetres,
		},
		{
			ID:            "moon",
			Name:          "Moon",
			Position:      model.Position{X: 3.844e8},
			MaxRadius:     1.7374e6,
			SurfaceRadius: 1.7374e6,
			Unit:          model.UnitMetres,
		},
		{
			ID:           "iss",
			Name:         "ISS",
			MaxRadius:    5000,
			Unit:         model.UnitMetres,
			MotionSource: model.MotionSourceSpacetrack,
		},
	}
}

func loadWorld(store *world.Store, path string) (*world.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return world.LoadScenario(store, f)
}

func loadReplay(path string) ([]model.TimedPose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return recorder.ReadAll(f)
}

// flightProfile produces a synthetic input script: accelerate forward,
// sweep the view slowly, and nudge the speed multiplier in the second
// half of each minute.
func flightProfile(start time.Time) core.InputSource {
	lastTick := -1
	return core.InputFunc(func() core.Input {
		elapsed := time.Since(start).Seconds()
		in := core.Input{
			MoveZ: 1,
			LookX: 0.05 * math.Sin(elapsed/10),
		}
		sec := int(elapsed)
		if sec%30 == 20 && sec != lastTick {
			lastTick = sec
			in.SpeedTicks = 1
		}
		return in
	})
}

func printStatus(frameCount uint64, active core.Controller, freeFly *core.FreeFlyController) {
	pose := active.Pose()
	if freeFly != nil {
		fmt.Printf("[frame %6d] pos=(%.0f, %.0f, %.0f) yaw=%5.1f pitch=%5.1f speed=%8.1f/%8.1f near=%7.1f far=%12.1f in-range=%d\n",
			frameCount,
			pose.Position.X, pose.Position.Y, pose.Position.Z,
			pose.Yaw, pose.Pitch,
			freeFly.Velocity().Len(), freeFly.MaxSpeed(),
			freeFly.NearClip(), freeFly.FarClip(),
			active.InRange().Len(),
		)
		return
	}
	fmt.Printf("[frame %6d] pos=(%.0f, %.0f, %.0f) yaw=%5.1f pitch=%5.1f in-range=%d\n",
		frameCount,
		pose.Position.X, pose.Position.Y, pose.Position.Z,
		pose.Yaw, pose.Pitch,
		active.InRange().Len(),
	)
}
