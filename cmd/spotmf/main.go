package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/deval2498/Spotmf/adapters/events"
	"github.com/deval2498/Spotmf/adapters/store"
	"github.com/deval2498/Spotmf/adapters/tokenizer"
	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/internal/eth"
	"github.com/deval2498/Spotmf/service"
	"github.com/deval2498/Spotmf/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	signKey := loadSigningKey()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)

	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}

	jwtTokenizer := tokenizer.NewJWTTokenizer(signKey)
	redisStore := store.NewRedisStore(redisClient)
	eventPub := events.NewWatermillPublisher(publisher)
	txBuilder := eth.NewTxBuilder(loadAssetConfig())

	authService := service.NewAuthService(redisStore, jwtTokenizer, eventPub)
	actionService := service.NewActionService(redisStore, txBuilder, eventPub)

	router := http.SetupRouter(authService, actionService, jwtTokenizer)

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = ":8000"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadSigningKey reads the credential signing key from JWT_SIGNING_KEY
// (base64 DER). Without one a fresh key is generated, which invalidates all
// outstanding credentials on restart; fine for development only.
func loadSigningKey() *ecdsa.PrivateKey {
	if encoded := os.Getenv("JWT_SIGNING_KEY"); encoded != "" {
		der, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Fatalf("Failed to decode JWT_SIGNING_KEY: %v", err)
		}
		key, err := x509.ParseECPrivateKey(der)
		if err != nil {
			log.Fatalf("Failed to parse JWT_SIGNING_KEY: %v", err)
		}
		return key
	}

	log.Println("JWT_SIGNING_KEY not set, generating an ephemeral signing key")
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate signing key: %v", err)
	}
	return key
}

// loadAssetConfig reads the per-asset token/spender table from ASSET_CONFIG
// (JSON), falling back to the compiled defaults.
func loadAssetConfig() map[core.AssetType]eth.AssetConfig {
	raw := os.Getenv("ASSET_CONFIG")
	if raw == "" {
		return nil
	}
	var cfg map[core.AssetType]eth.AssetConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		log.Fatalf("Failed to parse ASSET_CONFIG: %v", err)
	}
	return cfg
}
