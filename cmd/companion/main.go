// Package main is the entry point for the companion CLI.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/psymind-ai/companion/internal/config"
	"github.com/psymind-ai/companion/internal/llm"
	"github.com/psymind-ai/companion/internal/model"
	"github.com/psymind-ai/companion/internal/session"
	"github.com/psymind-ai/companion/internal/storage"
	"github.com/psymind-ai/companion/internal/wellness"
	"github.com/psymind-ai/companion/pkg/logger"
	"github.com/psymind-ai/companion/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting companion")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "companion", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Expose metrics when an address is configured
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	// Open storage
	store, err := storage.Open(cfg, log)
	if err != nil {
		log.Error("failed to open storage", zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	// Persisted settings override the environment defaults
	var reducedMotion bool
	if store.Get(storage.KeyReducedMotion, &reducedMotion) {
		cfg.ReducedMotion = reducedMotion
	}

	// Initialize the LLM client. A missing credential leaves the client
	// nil; the generator then resolves everything to an API-key error
	// message instead of crashing.
	var client llm.Client
	if apiKey := cfg.APIKey(); apiKey != "" {
		client, err = llm.NewClient(llm.Provider(cfg.Provider), apiKey)
		if err != nil {
			log.Warn("failed to create LLM client, AI features disabled", zap.Error(err))
			client = nil
		}
	} else {
		log.Warn("no API key configured, AI features disabled")
	}

	gen := llm.NewGenerator(client, cfg, log)
	sess := session.New(cfg, store, gen, log)
	wellnessSvc := wellness.NewService(gen, log)

	repl := &repl{cfg: cfg, store: store, sess: sess, wellness: wellnessSvc, log: log}
	sess.Subscribe(repl.render)

	// Stop cleanly on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		sess.StopStreaming()
		fmt.Println()
		os.Exit(0)
	}()

	repl.run(ctx)
}

// repl drives the interactive loop: plain lines become chat messages,
// slash commands operate on the session and the wellness tools.
type repl struct {
	cfg      *config.Config
	store    storage.Store
	sess     *session.Session
	wellness *wellness.Service
	log      *logger.Logger
}

func (r *repl) run(ctx context.Context) {
	fmt.Println("PsyMind.AI — apoio emocional para estudantes. Digite /help para comandos.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			r.sess.StopStreaming()
			return
		case strings.HasPrefix(line, "/"):
			r.command(ctx, line)
		default:
			r.send(ctx, lines, line)
		}
	}
}

// send runs Send on its own goroutine so the loop keeps reading stdin:
// a /stop typed mid-stream must cancel the reveal, not queue behind it.
func (r *repl) send(ctx context.Context, lines <-chan string, text string) {
	done := make(chan struct{})
	go func() {
		r.sess.Send(ctx, text, nil)
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		case line, ok := <-lines:
			if !ok {
				r.sess.StopStreaming()
				<-done
				return
			}
			if strings.TrimSpace(line) == "/stop" {
				r.sess.StopStreaming()
			}
		}
	}
}

func (r *repl) command(ctx context.Context, line string) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch fields[0] {
	case "/help":
		r.printHelp()
	case "/new":
		r.sess.ClearHistory()
		fmt.Println("Nova conversa iniciada.")
	case "/chats":
		r.printChats()
	case "/open":
		if chat := r.resolveChat(arg); chat != nil {
			r.sess.LoadChat(chat.ID)
			fmt.Printf("Conversa %q carregada (%d mensagens).\n", chat.Title, len(chat.Messages))
			for _, msg := range r.sess.Messages() {
				label := "Você"
				if msg.Role == model.RoleAssistant {
					label = "PsyMind"
				}
				fmt.Printf("%s: %s\n", label, msg.Content)
			}
		} else {
			fmt.Println("Conversa não encontrada.")
		}
	case "/delete":
		if chat := r.resolveChat(arg); chat != nil {
			r.sess.DeleteChat(chat.ID)
			fmt.Printf("Conversa %q excluída.\n", chat.Title)
		} else {
			fmt.Println("Conversa não encontrada.")
		}
	case "/stop":
		r.sess.StopStreaming()
	case "/tip":
		mode := wellness.ModeFocus
		if arg != "" {
			mode = arg
		}
		fmt.Println(r.wellness.PomodoroTip(ctx, mode))
	case "/mood":
		if arg == "" {
			fmt.Println("Uso: /mood <humor1, humor2, ...>")
			return
		}
		moods := strings.Split(arg, ",")
		for i := range moods {
			moods[i] = strings.TrimSpace(moods[i])
		}
		fmt.Println(r.wellness.MoodInsight(ctx, moods))
	case "/reflect":
		if reflection := r.wellness.DailyReflection(ctx, arg); reflection != nil {
			fmt.Printf("%q - %s\n", reflection.Text, reflection.Author)
		} else {
			fmt.Println("⚠️ Não foi possível gerar reflexão no momento.")
		}
	case "/motion":
		r.setReducedMotion(arg)
	default:
		fmt.Println("Comando desconhecido. Digite /help.")
	}
}

func (r *repl) setReducedMotion(arg string) {
	switch arg {
	case "on":
		r.cfg.ReducedMotion = true
	case "off":
		r.cfg.ReducedMotion = false
	default:
		fmt.Println("Uso: /motion on|off")
		return
	}
	r.store.Set(storage.KeyReducedMotion, r.cfg.ReducedMotion)
	fmt.Printf("Movimento reduzido: %v\n", r.cfg.ReducedMotion)
}

func (r *repl) printChats() {
	chats := r.sess.Chats()
	if len(chats) == 0 {
		fmt.Println("Nenhuma conversa salva.")
		return
	}
	for i, chat := range chats {
		marker := " "
		if chat.ID == r.sess.ActiveChatID() {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%d mensagens, %s)\n",
			marker, i+1, chat.Title, len(chat.Messages), chat.UpdatedAt.Format(time.DateTime))
	}
}

// resolveChat accepts a 1-based list index or a chat id.
func (r *repl) resolveChat(arg string) *model.Chat {
	if arg == "" {
		return nil
	}
	chats := r.sess.Chats()
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(chats) {
			return chats[n-1]
		}
		return nil
	}
	for _, chat := range chats {
		if chat.ID == arg {
			return chat
		}
	}
	return nil
}

// render prints session events. Streamed chunks are written as they
// arrive; under reduced motion the whole message lands at once.
func (r *repl) render(ev model.Event) {
	switch ev.Type {
	case model.EventTypingChanged:
		if ev.Typing {
			fmt.Print("\nPsyMind está digitando...")
		}
	case model.EventMessageAppended:
		if ev.Message == nil || ev.Message.Role != model.RoleAssistant {
			return
		}
		if ev.Message.IsStreaming {
			fmt.Print("\rPsyMind: ")
		} else {
			fmt.Printf("\rPsyMind: %s\n\n", ev.Message.Content)
		}
	case model.EventMessageChunk:
		fmt.Print(ev.Chunk)
	case model.EventStreamEnded:
		fmt.Print("\n\n")
	}
}

func (r *repl) printHelp() {
	fmt.Print(`Comandos:
  /new              inicia uma nova conversa
  /chats            lista as conversas salvas
  /open <n|id>      carrega uma conversa
  /delete <n|id>    exclui uma conversa
  /stop             interrompe a resposta em andamento
  /tip [focus|short|long]   dica Pomodoro
  /mood <humores>   reflexão sobre seus registros de humor
  /reflect [tema]   frase inspiradora
  /motion on|off    ativa/desativa movimento reduzido
  /quit             sai
`)
}
