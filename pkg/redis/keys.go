package redis

import "fmt"

// EntityRegistryKey is the set of entity IDs known to the host
const EntityRegistryKey = "registry:entities"

// StateKey returns the key holding an entity's current state document (string)
// Pattern: state:{entity_id}
func StateKey(entityID string) string {
	return fmt.Sprintf("state:%s", entityID)
}
