package screen

import (
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/masjidtech/minaret/internal/engine"
)

// command is one display instruction published to the screen topic.
type command struct {
	Op      string              `json:"op"`
	Visible bool                `json:"visible"`
	Text    string              `json:"text,omitempty"`
	Tier    engine.StyleTier    `json:"tier,omitempty"`
	Warning bool                `json:"warning,omitempty"`
	Special bool                `json:"special,omitempty"`
	Path    string              `json:"path,omitempty"`
	Adhkar  *engine.AdhkarFrame `json:"adhkar,omitempty"`
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// MQTTSurface drives a remote screen over MQTT: the director's show/hide
// calls become retained JSON commands on screens/<id>/display, so a screen
// that reconnects repaints straight into the current state. Identical
// consecutive commands are not re-published.
type MQTTSurface struct {
	client mqtt.Client
	topic  string

	mu   sync.Mutex
	last map[string]string
}

// NewMQTTSurface connects to the broker and returns a surface publishing
// to the given screen ID.
func NewMQTTSurface(brokerURL, clientID, screenID string) (*MQTTSurface, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}
	return &MQTTSurface{
		client: client,
		topic:  fmt.Sprintf("screens/%s/display", screenID),
		last:   make(map[string]string),
	}, nil
}

// Close disconnects from the broker.
func (s *MQTTSurface) Close() {
	s.client.Disconnect(250)
}

func (s *MQTTSurface) ShowBaseGrid() {
	s.publish(command{Op: "base_grid", Visible: true})
}

func (s *MQTTSurface) HideBaseGrid() {
	s.publish(command{Op: "base_grid", Visible: false})
}

func (s *MQTTSurface) RenderMessage(msg string, tier engine.StyleTier, warning, special bool) {
	s.publish(command{Op: "message", Visible: true, Text: msg, Tier: tier, Warning: warning, Special: special})
}

func (s *MQTTSurface) ShowImage(path string) {
	s.publish(command{Op: "image", Visible: true, Path: path})
}

func (s *MQTTSurface) HideImage() {
	s.publish(command{Op: "image", Visible: false})
}

func (s *MQTTSurface) ShowAdhkar(frame engine.AdhkarFrame) {
	s.publish(command{Op: "adhkar", Visible: true, Adhkar: &frame})
}

func (s *MQTTSurface) HideAdhkar() {
	s.publish(command{Op: "adhkar", Visible: false})
}

func (s *MQTTSurface) publish(cmd command) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		log.Error().Err(err).Str("op", cmd.Op).Msg("failed to encode display command")
		return
	}
	s.mu.Lock()
	if s.last[cmd.Op] == string(payload) {
		s.mu.Unlock()
		return
	}
	s.last[cmd.Op] = string(payload)
	s.mu.Unlock()

	token := s.client.Publish(s.topic, 1, true, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("op", cmd.Op).Msg("failed to publish display command")
		}
	}()
}
