package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Post-deploy smoke checker. Walks a JSON target list against a running
// instance and fails the run when any critical target misbehaves.

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Err      error
}

func (r result) ok() bool {
	if r.Err != nil {
		return false
	}
	expect := r.Target.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	return r.Status == expect
}

func main() {
	var (
		base        string
		targetsPath string
		user        string
		password    string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&user, "user", "", "Coordinator username for authenticated targets")
	flag.StringVar(&password, "password", "", "Coordinator password")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}

	var token string
	if user != "" {
		token, err = login(client, base, user, password)
		if err != nil {
			log.Fatalf("login: %v", err)
		}
	}

	var critical int
	fmt.Printf("Smoke check against %s (%d targets)\n", base, len(targets))
	for _, tgt := range targets {
		res := check(client, base, token, tgt)
		verdict := "ok"
		if !res.ok() {
			verdict = "FAIL"
			if tgt.Critical {
				critical++
			}
		}
		fmt.Printf("  [%s] %-6s %-45s %d (%s)\n", verdict, res.Target.Method, res.Target.Path, res.Status, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Printf("        %v\n", res.Err)
		}
	}

	if critical > 0 {
		fmt.Printf("%d critical target(s) failing\n", critical)
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf targetFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	if len(tf.Targets) == 0 {
		return nil, fmt.Errorf("no targets in %s", path)
	}
	return tf.Targets, nil
}

// login exchanges credentials for a bearer token via the auth endpoint.
func login(client *http.Client, base, user, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"username": user, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(joinURL(base, "/api/v1/auth/login"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}
	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return envelope.Data.AccessToken, nil
}

func check(client *http.Client, base, token string, tgt target) result {
	res := result{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequest(method, joinURL(base, tgt.Path), nil)
	if err != nil {
		res.Err = err
		return res
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	res.Status = resp.StatusCode
	return res
}

func joinURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}
