package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"solarfarm/internal/auth"
)

type config struct {
	secret  string
	subject string
	role    string
	ttl     time.Duration
}

func main() {
	cfg := parseConfig()
	token, err := issue(cfg)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.secret, "secret", os.Getenv("AUTH_JWT_SECRET"), "HS256 signing secret")
	flag.StringVar(&cfg.subject, "subject", "solarfarm-cli", "token subject")
	flag.StringVar(&cfg.role, "role", string(auth.RoleViewer), "viewer or operator")
	flag.DurationVar(&cfg.ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()
	return cfg
}

func issue(cfg config) (string, error) {
	role, ok := auth.ParseRole(cfg.role)
	if !ok {
		return "", fmt.Errorf("unknown role %q", cfg.role)
	}
	if cfg.ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive")
	}
	return auth.IssueJWT([]byte(cfg.secret), cfg.subject, role, cfg.ttl)
}
