package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/saaga0h/jeeves-sunshine/pkg/mqtt"
)

// MQTTClient is a testify mock of mqtt.Client
type MQTTClient struct {
	mock.Mock
}

func (_m *MQTTClient) Connect(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MQTTClient) Disconnect() {
	_m.Called()
}

func (_m *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	ret := _m.Called(topic, qos, handler)
	return ret.Error(0)
}

func (_m *MQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	ret := _m.Called(topic, qos, retained, payload)
	return ret.Error(0)
}

func (_m *MQTTClient) IsConnected() bool {
	ret := _m.Called()
	return ret.Bool(0)
}

// Message is a fixed mqtt.Message for feeding handlers
type Message struct {
	TopicValue    string
	PayloadValue  []byte
	RetainedValue bool
}

func (m *Message) Topic() string   { return m.TopicValue }
func (m *Message) Payload() []byte { return m.PayloadValue }
func (m *Message) Retained() bool  { return m.RetainedValue }
func (m *Message) Ack()            {}
