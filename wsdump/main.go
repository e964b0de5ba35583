package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
)

// wsdump connects to an alertcast server and prints every event it receives,
// one JSON object per line. Useful for debugging the wire protocol without
// running a full overlay client.
func main() {
	if len(os.Args) < 2 {
		fmt.Println(`{"error": "Please provide a websocket URL as an argument, e.g. ws://localhost:8080/ws"}`)
		return
	}
	url := os.Args[1]

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf(`{"error": %q}`+"\n", err.Error())
		os.Exit(1)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		// Ask the server for a clean close; the read loop ends on the close frame.
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}
			fmt.Printf(`{"error": %q}`+"\n", err.Error())
			return
		}

		// A frame may carry several newline-separated events.
		for _, segment := range bytes.Split(frame, []byte("\n")) {
			segment = bytes.TrimSpace(segment)
			if len(segment) == 0 {
				continue
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, segment, "", "  "); err != nil {
				fmt.Println(string(segment))
				continue
			}
			fmt.Println(pretty.String())
		}
	}
}
