package socket_io

import (
	"Mheibes/services/game_flow"
	"Mheibes/services/socket_io/handlers"
	socketio_types "Mheibes/services/socket_io/types"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, gf *game_flow.GameFlow) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		connID := string(client.Id())

		// Track the connection; the socket id is the player identity
		(*socketio_types.SocketServer)(sio).AddConnection(connID, client)

		fmt.Println("An individual just connected!: ", connID)

		sioTyped := (*socketio_types.SocketServer)(sio)

		// Room lifecycle
		client.On("create_room", handlers.HandleCreateRoom(gf, client, sioTyped))
		client.On("join_room", handlers.HandleJoinRoom(gf, client, sioTyped))
		client.On("try_rejoin", handlers.HandleTryRejoin(gf, client, sioTyped))

		// Lobby administration
		client.On("switch_team", handlers.HandleSwitchTeam(gf, client, sioTyped))
		client.On("rename_team", handlers.HandleRenameTeam(gf, client, sioTyped))
		client.On("set_settings", handlers.HandleSetSettings(gf, client, sioTyped))
		client.On("kick_player", handlers.HandleKickPlayer(gf, client, sioTyped))
		client.On("transfer_host", handlers.HandleTransferHost(gf, client, sioTyped))

		// Game progress
		client.On("start_game", handlers.HandleStartGame(gf, client, sioTyped))
		client.On("coin_toss", handlers.HandleCoinToss(gf, client, sioTyped))
		client.On("select_ring", handlers.HandleSelectRing(gf, client, sioTyped))
		client.On("bat", handlers.HandleBat(gf, client, sioTyped))
		client.On("select_tayer", handlers.HandleSelectTayer(gf, client, sioTyped))

		// Searching
		client.On("tak", handlers.HandleTak(gf, client, sioTyped))
		client.On("jeeba", handlers.HandleJeeba(gf, client, sioTyped))

		// Endgame
		client.On("play_again", handlers.HandlePlayAgain(gf, client, sioTyped))

		// NOTE: will keep the seat reserved for the grace period
		client.On("disconnecting", handlers.HandleDisconnecting(gf, client, sioTyped))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
