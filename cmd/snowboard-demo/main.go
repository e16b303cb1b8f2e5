package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/widaT/snowboard"
)

type pong struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

func route(req *snowboard.Request) snowboard.Responder {
	u := req.ParseURL()
	switch u.At(0) {
	case "":
		return snowboard.Text("Hello, world!")
	case "ping":
		return snowboard.Text("Pong!")
	case "echo":
		v := new(pong)
		if resp := req.ForceJSON(v); resp != nil {
			return resp
		}
		v.Count++
		return snowboard.JSON{Value: v}
	case "api":
		return snowboard.NotImplemented(nil)
	case "hello":
		name, ok := u.Segment(1)
		if !ok {
			name, _ = u.Param("name")
		}
		if name == "" {
			return snowboard.BadRequest([]byte("missing name"))
		}
		return snowboard.Text("Hello, " + name + "!")
	}
	req.Logger.Debug().Str("url", req.RawURL).Msg("no route")
	return snowboard.NotFound(nil)
}

func echo(ws *snowboard.WebSocket) {
	for {
		msg, op, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if err := ws.WriteMessage(op, msg); err != nil {
			return
		}
	}
}

func main() {
	addr := flag.String("addr", "localhost:8080", "listen address")
	debug := flag.Bool("debug", false, "log connection lifecycle")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	s := snowboard.NewServer(*addr, route).OnWebSocket("/ws", echo)
	s.Logger = log
	s.InsertDefaultHeaders = true

	if err := s.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
