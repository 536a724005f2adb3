package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/internal/service"
	"github.com/rfplens/rfplens/pkg/analyzer"
	"github.com/rfplens/rfplens/pkg/answer"
	cfgPkg "github.com/rfplens/rfplens/pkg/config"
	"github.com/rfplens/rfplens/pkg/extract"
	"github.com/rfplens/rfplens/pkg/llm"
	"github.com/rfplens/rfplens/pkg/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is the wire format in both directions. Type names the action
// (analyze, ask, search, proposal) or the server reply kind (status,
// response, error).
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

type WSServer struct {
	config      *cfgPkg.Config
	rfp         *service.Service
	vectorStore *store.VectorStore
}

// session is the per-connection state: the last analysis and its text.
type session struct {
	analysis *models.Analysis
	content  string
}

func NewWSServer(config *cfgPkg.Config) (*WSServer, error) {
	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		Token:       config.LLM.APIKey,
		BaseURL:     config.LLM.BaseURL,
		APIVersion:  config.LLM.APIVersion,
		Model:       config.LLM.Model,
		MaxTokens:   config.LLM.MaxTokens,
		Temperature: config.LLM.Temperature,
		RateLimit:   config.LLM.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Token:      config.LLM.APIKey,
		BaseURL:    config.LLM.BaseURL,
		APIVersion: config.LLM.APIVersion,
		Model:      config.LLM.EmbeddingModel,
		RateLimit:  config.LLM.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %v", err)
	}

	vectorStore, err := store.NewWithConfig(store.VectorStoreConfig{
		ConnString:  config.Database.URL,
		TableName:   config.Database.TableName,
		VectorDim:   config.Database.VectorDim,
		SearchLimit: config.Search.Limit,
	}, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %v", err)
	}

	rfp := service.New(service.ServiceConfig{SearchLimit: config.Search.Limit},
		extract.New(),
		analyzer.NewWithConfig(analyzer.AnalyzerConfig{MaxChars: config.Analyzer.MaxChars}, chatEngine),
		vectorStore,
		answer.NewWithConfig(answer.AnswererConfig{}, chatEngine),
	)

	return &WSServer{
		config:      config,
		rfp:         rfp,
		vectorStore: vectorStore,
	}, nil
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := &session{}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.handleMessage(r.Context(), conn, sess, msg)
	}
}

func (s *WSServer) handleMessage(ctx context.Context, conn *websocket.Conn, sess *session, msg Message) {
	switch msg.Type {
	case "analyze":
		s.sendMessage(conn, "status", fmt.Sprintf("Analyzing %s", msg.Content))

		analysis, content, err := s.rfp.AnalyzeFile(ctx, msg.Content)
		if err != nil {
			s.sendMessage(conn, "error", err.Error())
			return
		}
		sess.analysis = analysis
		sess.content = content

		s.sendData(conn, "analysis", analysis)

	case "ask":
		if sess.analysis == nil {
			s.sendMessage(conn, "error", "no analyzed document in this session")
			return
		}

		reply, err := s.rfp.Ask(ctx, sess.analysis, sess.content, msg.Content, nil)
		if err != nil {
			s.sendMessage(conn, "error", err.Error())
			return
		}
		s.sendMessage(conn, "response", reply)

	case "search":
		results, err := s.rfp.SearchSimilar(ctx, msg.Content, 0)
		if err != nil {
			s.sendMessage(conn, "error", err.Error())
			return
		}
		s.sendData(conn, "results", results)

	case "proposal":
		if sess.analysis == nil {
			s.sendMessage(conn, "error", "no analyzed document in this session")
			return
		}

		draft, err := s.rfp.Proposal(ctx, sess.analysis)
		if err != nil {
			s.sendMessage(conn, "error", err.Error())
			return
		}
		s.sendMessage(conn, "response", draft)

	default:
		s.sendMessage(conn, "error", fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (s *WSServer) sendMessage(conn *websocket.Conn, msgType string, content string) {
	msg := Message{
		Type:    msgType,
		Content: content,
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (s *WSServer) sendData(conn *websocket.Conn, msgType string, data interface{}) {
	msg := Message{
		Type: msgType,
		Data: data,
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func main() {
	_ = godotenv.Load()

	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if errs := config.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("config: %v", e)
		}
		os.Exit(1)
	}

	server, err := NewWSServer(config)
	if err != nil {
		log.Fatal(err)
	}
	defer server.vectorStore.Close()

	http.HandleFunc("/ws", server.handleWebSocket)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Printf("Starting WebSocket server on port %s", config.Server.Port)
	if err := http.ListenAndServe(":"+config.Server.Port, nil); err != nil {
		log.Fatal(err)
	}
}
