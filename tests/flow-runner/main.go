// flow-runner drives complete checkout wizards against a running instance.
// Useful for smoke testing the whole flow end to end, including the
// processing delay and the per-seller order fan-out.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

var (
	baseURL = flag.String("base-url", "http://localhost:8080", "checkout service address")
	buyers  = flag.Int("buyers", 3, "number of concurrent buyers to simulate")
)

type session struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	OrderIDs  []string `json:"order_ids"`
}

func main() {
	flag.Parse()

	done := make(chan string, *buyers)
	for i := 0; i < *buyers; i++ {
		buyerID := fmt.Sprintf("load-buyer-%d-%d", i, rand.Intn(10000))
		go func() {
			if err := runFlow(buyerID); err != nil {
				log.Printf("buyer %s failed: %v", buyerID, err)
			}
			done <- buyerID
		}()
	}
	for i := 0; i < *buyers; i++ {
		log.Printf("buyer %s finished", <-done)
	}
}

func runFlow(buyerID string) error {
	for _, item := range []map[string]any{
		{"product_id": "p-bolts", "seller_id": "s-fasteners", "seller_name": "Fastener Co", "title": "Hex bolts M8", "price": "0.12", "quantity": 500, "moq": 100},
		{"product_id": "p-panels", "seller_id": "s-steel", "seller_name": "Steel Works", "title": "Steel panel 2m", "price": "45.00", "quantity": 10, "moq": 5},
	} {
		if _, err := post(fmt.Sprintf("%s/cart/%s/items", *baseURL, buyerID), item); err != nil {
			return fmt.Errorf("seed cart: %w", err)
		}
	}

	s, err := post(*baseURL+"/checkout", map[string]any{"buyer_id": buyerID})
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if _, err := post(sessionURL(s, "shipping"), map[string]any{
		"full_name": "Load Tester", "phone_number": "+15550009999",
		"email": "load@example.com", "street_address": "1 Test Way",
		"city": "Springfield", "state_province": "IL", "postal_code": "62701", "country": "US",
	}); err != nil {
		return fmt.Errorf("shipping: %w", err)
	}

	if _, err := post(sessionURL(s, "payment"), map[string]any{
		"cardholder_name": "Load Tester", "card_number": "4242424242424242",
		"expiry_month": "12", "expiry_year": "2030", "cvv": "123",
	}); err != nil {
		return fmt.Errorf("payment: %w", err)
	}

	// Poll through the processing delay until the wizard asks for the OTP.
	for {
		cur, err := get(fmt.Sprintf("%s/checkout/%s", *baseURL, s.SessionID))
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if cur.State != "processing" {
			break
		}
		time.Sleep(time.Second)
	}

	if _, err := post(sessionURL(s, "otp"), map[string]any{"code": "123456"}); err != nil {
		return fmt.Errorf("otp: %w", err)
	}

	final, err := post(sessionURL(s, "confirm"), nil)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	log.Printf("buyer %s confirmed, orders: %v", buyerID, final.OrderIDs)
	return nil
}

func sessionURL(s session, action string) string {
	return fmt.Sprintf("%s/checkout/%s/%s", *baseURL, s.SessionID, action)
}

func post(url string, body any) (session, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return session{}, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	resp, err := http.Post(url, "application/json", reader)
	if err != nil {
		return session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return session{}, fmt.Errorf("POST %s -> %s", url, resp.Status)
	}
	var s session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return session{}, err
	}
	return s, nil
}

func get(url string) (session, error) {
	resp, err := http.Get(url)
	if err != nil {
		return session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return session{}, fmt.Errorf("GET %s -> %s", url, resp.Status)
	}
	var s session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return session{}, err
	}
	return s, nil
}
