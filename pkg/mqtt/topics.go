package mqtt

import "fmt"

// Topic constants for the host state bus
const (
	// TopicStateBase prefixes every entity state topic
	TopicStateBase = "automation/state"

	// TopicTimeConfig carries virtual time settings for scenario tests
	TopicTimeConfig = "automation/test/time_config"
)

// StateTopic constructs the state topic for an entity
// Pattern: automation/state/{entity_id}
func StateTopic(entityID string) string {
	return fmt.Sprintf("%s/%s", TopicStateBase, entityID)
}
