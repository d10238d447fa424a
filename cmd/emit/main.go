package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/zaapr0x/mc-hook/internal/broadcast"
	"github.com/zaapr0x/mc-hook/internal/journal"
	"github.com/zaapr0x/mc-hook/pkg/event"
	"github.com/zaapr0x/mc-hook/pkg/host"
)

func main() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis successfully!")

	publisher := broadcast.NewPublisher(client, nil)
	j := journal.NewRedis(client, 0, nil)

	// Emit a synthetic pickup
	pickup := event.NewPickup("test-player", "minecraft:diamond", 3)
	if err := j.Append(ctx, pickup); err != nil {
		log.Fatal("Failed to journal pickup event:", err)
	}
	if err := publisher.Publish(ctx, pickup); err != nil {
		log.Fatal("Failed to publish pickup event:", err)
	}

	fmt.Printf("✅ Emitted pickup event: %s\n", pickup.ID)

	// Emit a synthetic block break
	breakEvent := event.NewBreak(host.BlockBreak{
		PlayerName: "test-player",
		BlockID:    "minecraft:diamond_ore",
		Location:   host.BlockLocation{X: 12, Y: -58, Z: 7},
		Dimension:  "overworld",
		ToolTypeID: "minecraft:netherite_pickaxe",
	})
	if err := j.Append(ctx, breakEvent); err != nil {
		log.Fatal("Failed to journal block break event:", err)
	}
	if err := publisher.Publish(ctx, breakEvent); err != nil {
		log.Fatal("Failed to publish block break event:", err)
	}

	fmt.Printf("✅ Emitted block break event: %s\n", breakEvent.ID)

	// Check journal depth
	depth, err := client.LLen(ctx, "mchook:journal").Result()
	if err != nil {
		log.Fatal("Failed to get journal depth:", err)
	}

	fmt.Printf("\n📊 Journal depth: %d events\n", depth)
	fmt.Println("\n💡 Now start the console to watch the live stream!")
	fmt.Println("   Run: go run cmd/console/main.go")
}
