package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"course_platform/internal/domain/user/model"
	"course_platform/internal/pkg/config"
	"course_platform/pkg/utils"
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

// 同一用户并发下单，预期只有一笔待支付订单创建成功，其余返回 409
func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "server base url")
		userID   = flag.String("user", "", "user id (uuid) placing the orders")
		planID   = flag.String("plan", "", "plan id")
		requests = flag.Int("n", 200, "concurrent requests")
	)
	flag.Parse()
	if *userID == "" || *planID == "" {
		log.Fatal("-user and -plan are required")
	}

	config.LoadConfig()
	token, _, err := utils.GenerateToken(*userID, model.RoleUser, config.GlobalConfig.JWT.Secret, time.Hour)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Printf("开始压测：用户 %s 并发 %d 次下单 (PlanID: %s)...\n", *userID, *requests, *planID)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[int]int)
		orderNos []string
	)

	start := time.Now()
	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, orderNo := createOrder(*baseURL, token, *planID)
			mu.Lock()
			statuses[status]++
			if orderNo != "" {
				orderNos = append(orderNos, orderNo)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	duration := time.Since(start)

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("QPS: %.2f\n", float64(*requests)/duration.Seconds())
	for status, n := range statuses {
		fmt.Printf("HTTP %d: %d\n", status, n)
	}
	fmt.Printf("创建成功: %d (预期: 1) %v\n", len(orderNos), orderNos)
	fmt.Println("--------------------------------------------------")
}

func createOrder(baseURL, token, planID string) (int, string) {
	body, _ := json.Marshal(map[string]string{"plan_id": planID})
	req, err := http.NewRequest(http.MethodPost, baseURL+"/membership/orders", bytes.NewReader(body))
	if err != nil {
		return 0, ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, ""
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp.StatusCode, ""
	}

	var result struct {
		Data struct {
			OrderNo string `json:"order_no"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return resp.StatusCode, ""
	}
	return resp.StatusCode, result.Data.OrderNo
}
