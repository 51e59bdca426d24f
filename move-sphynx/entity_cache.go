// This file contains code controlling the entity cache.

package main

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lynxkite/lynxkite/move/config"
)

type EntityCache struct {
	sync.Mutex
	cache         map[GUID]cacheEntry
	totalMemUsage int
	maxMemUsage   int
}

func NewEntityCache(maxMemUsage int) EntityCache {
	return EntityCache{
		Mutex:         sync.Mutex{},
		cache:         make(map[GUID]cacheEntry),
		totalMemUsage: 0,
		maxMemUsage:   maxMemUsage,
	}
}

type cacheEntry struct {
	entity    Entity
	timestamp int64 // The last time this entity was accessed
	memUsage  int
}

var cachedEntitiesMaxMem = config.GetNumericEnv("MOVE_CACHED_ENTITIES_MAX_MEM_MB", 1*1024) * 1024 * 1024

func (entityCache *EntityCache) Get(guid GUID) (Entity, bool) {
	ts := ourTimestamp()
	entityCache.Lock()
	defer entityCache.Unlock()
	entry, exists := entityCache.cache[guid]
	if exists {
		entry.timestamp = ts
		entityCache.cache[guid] = entry
		return entry.entity, true
	}
	return nil, false
}

// Clear the entity cache.
func (entityCache *EntityCache) Clear() {
	entityCache.Lock()
	defer entityCache.Unlock()
	entityCache.cache = make(map[GUID]cacheEntry)
	entityCache.totalMemUsage = 0
}

// Set puts the entity in the cache.
// It also drops old items if the total memory usage of cached items
// exceeds maxMemUsage.
func (entityCache *EntityCache) Set(guid GUID, entity Entity) {
	memUsage := entity.estimatedMemUsage()
	entityCache.Lock()
	defer entityCache.Unlock()
	_, exists := entityCache.cache[guid]
	if !exists {
		entityCache.cache[guid] = cacheEntry{
			entity:    entity,
			timestamp: ourTimestamp(),
			memUsage:  memUsage,
		}
		entityCache.totalMemUsage += memUsage
		entityCache.maybeGarbageCollect()
	}
	// Re-running an operation must not refresh the outputs that are still cached.
}

func NotInCacheError(kind string, guid GUID) error {
	return fmt.Errorf("Could not find %v %v in memory. Increase MOVE_CACHED_ENTITIES_MAX_MEM_MB?", kind, guid)
}

func (entityCache *EntityCache) maybeGarbageCollect() {
	howMuchMemoryToRecycle := entityCache.totalMemUsage - entityCache.maxMemUsage
	if howMuchMemoryToRecycle <= 0 {
		return
	}
	type evictionItem struct {
		guid      GUID
		timestamp int64
		memUsage  int
	}
	candidates := make([]evictionItem, 0, len(entityCache.cache))
	for guid, e := range entityCache.cache {
		candidates = append(candidates, evictionItem{guid: guid, timestamp: e.timestamp, memUsage: e.memUsage})
	}
	// Nanosecond timestamps put inputs before the outputs computed from them.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].timestamp < candidates[j].timestamp
	})
	memEvicted := 0
	itemsEvicted := 0
	for i := 0; i < len(candidates) && memEvicted < howMuchMemoryToRecycle; i++ {
		delete(entityCache.cache, candidates[i].guid)
		memEvicted += candidates[i].memUsage
		itemsEvicted++
	}
	log.Printf("Evicted %d entities (out of %d), estimated size: %d", itemsEvicted, len(candidates), memEvicted)
	entityCache.totalMemUsage -= memEvicted
}

func ourTimestamp() int64 {
	// This must be precise
	return time.Now().UnixNano()
}

func (e *Scalar) estimatedMemUsage() int {
	return len(*e)
}

func (e *AssembledData) estimatedMemUsage() int {
	return e.EstimatedMemUsage()
}

func (e *Matrix) estimatedMemUsage() int {
	if e.Dense == nil {
		return 0
	}
	r, c := e.Dims()
	return r * c * 8
}
