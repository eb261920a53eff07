package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-maintenance-tracker/internal/costs"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"github.com/ukydev/car-maintenance-tracker/internal/validation"
)

// operation is a maintenance job the simulator knows how to price.
type operation struct {
	Name        string
	Consumables []models.ConsumableItem
	WorkCost    decimal.Decimal
}

// Typical jobs for a passenger car
var operations = []operation{
	{
		Name: "Oil change",
		Consumables: []models.ConsumableItem{
			models.NewConsumableItem("Engine oil", "5W-30", decimal.RequireFromString("9.50"), 4),
			models.NewConsumableItem("Oil filter", "OEM", decimal.RequireFromString("12.00"), 1),
		},
		WorkCost: decimal.NewFromInt(30),
	},
	{
		Name: "Brake pads",
		Consumables: []models.ConsumableItem{
			models.NewConsumableItem("Front pads", "Ceramic", decimal.RequireFromString("45.90"), 1),
			models.NewConsumableItem("Brake cleaner", "500ml", decimal.RequireFromString("6.25"), 2),
		},
		WorkCost: decimal.NewFromInt(60),
	},
	{
		Name: "Air filter",
		Consumables: []models.ConsumableItem{
			models.NewConsumableItem("Air filter", "Panel", decimal.RequireFromString("18.40"), 1),
		},
		WorkCost: decimal.NewFromInt(10),
	},
	{
		Name: "Spark plugs",
		Consumables: []models.ConsumableItem{
			models.NewConsumableItem("Spark plug", "Iridium", decimal.RequireFromString("11.75"), 4),
		},
		WorkCost: decimal.NewFromInt(40),
	},
	{
		Name:     "Inspection",
		WorkCost: decimal.NewFromInt(25),
	},
}

// Client talks to the tracker API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient creates an API client for baseURL (including the /api prefix).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login signs in as the demo user and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return models.User{}, err
	}
	if !resp.Success || resp.User == nil {
		return models.User{}, errors.New(resp.Message)
	}
	c.token = resp.Token
	return *resp.User, nil
}

// Cars lists every car.
func (c *Client) Cars(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	err := c.do(ctx, http.MethodGet, "/cars", nil, &cars)
	return cars, err
}

// Preview asks the server to price an operation without saving it.
func (c *Client) Preview(ctx context.Context, req costs.Request) (costs.Result, error) {
	var result costs.Result
	err := c.do(ctx, http.MethodPost, "/maintenance/calculate", req, &result)
	return result, err
}

// SaveMaintenance stores a maintenance record.
func (c *Client) SaveMaintenance(ctx context.Context, record models.Maintenance) (models.Maintenance, error) {
	var saved models.Maintenance
	err := c.do(ctx, http.MethodPost, "/maintenance", record, &saved)
	return saved, err
}

// UpdateCar replaces a car.
func (c *Client) UpdateCar(ctx context.Context, car models.Car) (models.Car, error) {
	var updated models.Car
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cars/%d", car.ID), car, &updated)
	return updated, err
}

// Simulator drives a car through randomly chosen maintenance jobs.
type Simulator struct {
	client *Client
	rng    *rand.Rand
	now    func() time.Time
}

// Step picks a car, drives it some distance, previews and saves one
// maintenance operation and records the new mileage on the car.
func (s *Simulator) Step(ctx context.Context) (models.Maintenance, error) {
	cars, err := s.client.Cars(ctx)
	if err != nil {
		return models.Maintenance{}, err
	}
	if len(cars) == 0 {
		return models.Maintenance{}, errors.New("no cars to maintain")
	}

	car := cars[s.rng.Intn(len(cars))]
	mileage := 500 + s.rng.Intn(4500)
	if car.Mileage != nil {
		mileage += *car.Mileage
	}
	car.Mileage = &mileage
	op := operations[s.rng.Intn(len(operations))]

	preview, err := s.client.Preview(ctx, costs.Request{
		Consumables: op.Consumables,
		WorkCost:    decimal.NewNullDecimal(op.WorkCost),
	})
	if err != nil {
		return models.Maintenance{}, err
	}

	saved, err := s.client.SaveMaintenance(ctx, models.Maintenance{
		CarID:         car.ID,
		Date:          s.now().Format(models.DateLayout),
		Mileage:       &mileage,
		OperationName: op.Name,
		Consumables:   preview.Consumables,
		WorkCost:      decimal.NewNullDecimal(preview.WorkCost),
	})
	if err != nil {
		return models.Maintenance{}, err
	}

	// Cars the API would reject (seeded with a bad VIN, say) keep their mileage.
	if err := validation.ValidateCar(car); err != nil {
		log.WithFields(log.Fields{
			"car_id":  car.ID,
			"reasons": validation.Reasons(err),
		}).Debug("Skipping mileage update")
	} else if _, err := s.client.UpdateCar(ctx, car); err != nil {
		log.WithError(err).WithField("car_id", car.ID).Warn("Failed to update car mileage")
	}

	log.WithFields(log.Fields{
		"car_id":         car.ID,
		"car":            car.Name(),
		"operation":      op.Name,
		"mileage":        mileage,
		"preview_total":  preview.TotalCost.String(),
		"maintenance_id": saved.ID,
		"total_cost":     saved.TotalCost.String(),
	}).Info("Recorded maintenance")
	return saved, nil
}

// Run performs iterations steps, one per interval. Zero iterations runs
// until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, interval time.Duration, iterations int) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for done := 0; iterations == 0 || done < iterations; done++ {
		if _, err := s.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.WithError(err).Error("Simulation step failed")
		}
		if iterations != 0 && done == iterations-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback, minimum int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= minimum {
			return n
		}
	}
	return fallback
}

func main() {
	apiURL := envString("API_BASE_URL", "http://localhost:8080/api")
	email := envString("SIM_EMAIL", "demo@cartech.com")
	password := envString("SIM_PASSWORD", "demo123")
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 2, 1)) * time.Second
	iterations := envInt("SIM_ITERATIONS", 10, 0)

	log.WithFields(log.Fields{
		"api_url":    apiURL,
		"interval":   interval,
		"iterations": iterations,
	}).Info("Starting maintenance simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := NewClient(apiURL)
	user, err := client.Login(ctx, email, password)
	if err != nil {
		log.WithError(err).Error("Login failed. Ensure SIM_EMAIL/SIM_PASSWORD match the server and the API is reachable.")
		os.Exit(1)
	}
	log.WithField("user", user.Name).Info("Logged in")

	sim := &Simulator{client: client, rng: rand.New(rand.NewSource(time.Now().UnixNano())), now: time.Now}
	if err := sim.Run(ctx, interval, iterations); err != nil {
		log.WithError(err).Error("Simulation stopped")
		os.Exit(1)
	}
	log.Info("Simulation finished")
}
