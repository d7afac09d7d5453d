package main

import (
	"log"
	"net/http"
	"time"

	httpadapter "forager/internal/adapter/http"
	metricsinmem "forager/internal/adapter/metrics/inmemory"
	"forager/internal/adapter/repo"
	"forager/internal/adapter/snapshotcodec"
	wsadapter "forager/internal/adapter/ws"
	"forager/internal/app/auth"
	"forager/internal/app/ports"
	"forager/internal/app/replay"
	"forager/internal/app/session"
	"forager/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	repos, err := repo.Open(cfg)
	if err != nil {
		log.Fatalf("%v (did you run SQL migrations with cmd/admin migrate?)", err)
	}
	defer repos.Close()

	codec, err := snapshotcodec.New()
	if err != nil {
		log.Fatalf("snapshot codec: %v", err)
	}
	defer codec.Close()

	kpiRecorder := metricsinmem.NewRecorder()
	h := buildHandler(cfg, repos, codec, kpiRecorder)

	if cfg.WSAddr != "" {
		ws := wsadapter.NewServer(h.AuthUC, h.StepUC, cfg.TickHz, cfg.CORSOrigin, log.Default())
		mux := http.NewServeMux()
		mux.Handle("/ws", ws.Handler())
		go func() {
			log.Printf("forager websocket listening on %s (tick %d Hz)", cfg.WSAddr, cfg.TickHz)
			if err := http.ListenAndServe(cfg.WSAddr, mux); err != nil {
				log.Printf("websocket server stopped: %v", err)
			}
		}()
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	log.Printf("forager server listening on %s (store: %s)", cfg.Addr, repos.Backend)
	s.Spin()
}

func buildHandler(cfg config.Config, repos repo.Set, codec ports.SnapshotCodec, kpi *metricsinmem.Recorder) httpadapter.Handler {
	reg := session.NewRegistry()
	return httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{Credentials: repos.Credentials, TxManager: repos.TxManager, Now: time.Now},
		AuthUC:     auth.VerifyUseCase{Credentials: repos.Credentials},
		NewGameUC: session.NewGameUseCase{
			Registry: reg,
			Sessions: repos.Sessions,
			Events:   repos.Events,
			Config:   cfg.Game,
			Now:      time.Now,
		},
		StepUC: session.StepUseCase{
			Registry: reg,
			Events:   repos.Events,
			Sessions: repos.Sessions,
			Metrics:  kpi,
			Now:      time.Now,
		},
		CommandUC: session.CommandUseCase{Registry: reg, Sessions: repos.Sessions, Events: repos.Events, Now: time.Now},
		SaveUC: session.SaveUseCase{
			Registry:  reg,
			Snapshots: repos.Snapshots,
			Codec:     codec,
			Events:    repos.Events,
			TxManager: repos.TxManager,
			Metrics:   kpi,
			Now:       time.Now,
		},
		LoadUC: session.LoadUseCase{
			Registry:  reg,
			Snapshots: repos.Snapshots,
			Codec:     codec,
			Sessions:  repos.Sessions,
			Events:    repos.Events,
			Config:    cfg.Game,
			Now:       time.Now,
		},
		StatusUC:   session.StatusUseCase{Registry: reg},
		SavesUC:    session.ListSavesUseCase{Snapshots: repos.Snapshots},
		ReplayUC:   replay.UseCase{Events: repos.Events, Sessions: repos.Sessions},
		KPI:        kpi,
		CORSOrigin: cfg.CORSOrigin,
	}
}
