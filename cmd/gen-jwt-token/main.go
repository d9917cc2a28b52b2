/*
 * Copyright (c) 2025 Alessandro Faranda Gancio (dba TraceApi)
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-28
 * Change License: AGPL-3.0
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sematx/opendata-seed/internal/auth"
	"github.com/sematx/opendata-seed/internal/config"
	"github.com/skip2/go-qrcode"
)

func main() {
	// Same resolution as the mock broker: environment, then .env, then the dev key
	cfg := config.Load()

	secret := flag.String("secret", cfg.JWTSecret, "JWT secret key (default: from JWT_SECRET env or .env, else built-in dev key)")
	user := flag.String("user", "admin", "Username")
	hours := flag.Int("hours", 24, "Token validity in hours")
	qrFile := flag.String("qr", "", "Also write the token as a QR code PNG to this file")
	flag.Parse()

	claims := auth.NewClaims(*user, time.Duration(*hours)*time.Hour, time.Now())
	token, err := auth.Issue(*secret, claims)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	report := auth.Report{User: *user, Hours: *hours, Secret: *secret, Token: token}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		os.Exit(1)
	}

	if *qrFile != "" {
		if err := qrcode.WriteFile(token, qrcode.Medium, 512, *qrFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing QR code:", err)
			os.Exit(1)
		}
		fmt.Printf("QR code written to %s\n", *qrFile)
	}
}
