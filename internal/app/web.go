// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/attitude_computer/internal/ahrs"
	"github.com/relabs-tech/attitude_computer/internal/config"
	"github.com/relabs-tech/attitude_computer/internal/orientation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// attitudeState is the latest fused orientation, as served to web clients.
type attitudeState struct {
	Quaternion ahrs.Quaternion  `json:"quaternion"`
	Pose       orientation.Pose `json:"pose"`
}

// RunWeb subscribes to the attitude topics and serves the latest state over
// an HTTP JSON endpoint plus a websocket live stream.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu       sync.RWMutex
		last     attitudeState
		haveData bool
	)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Track the latest quaternion and pose
	quatToken := client.Subscribe(cfg.TopicAttitude, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var q ahrs.Quaternion
		if err := json.Unmarshal(msg.Payload(), &q); err != nil {
			log.Printf("web: attitude unmarshal error: %v", err)
			return
		}
		mu.Lock()
		last.Quaternion = q
		last.Pose = orientation.PoseFromQuaternion(q)
		haveData = true
		mu.Unlock()
	})
	quatToken.Wait()
	if quatToken.Error() != nil {
		return quatToken.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicAttitude)

	// 3) JSON API endpoint: latest attitude
	http.HandleFunc("/api/attitude", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveData {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(last); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket live stream: push the latest attitude at a fixed rate
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("web: websocket client connected: %s", r.RemoteAddr)

		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			state := last
			ok := haveData
			mu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(state); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("web: websocket write error: %v", err)
				}
				return
			}
		}
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
