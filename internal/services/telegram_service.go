package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// OrderNotifier announces order events to the operations team.
type OrderNotifier interface {
	NotifyNewOrder(order *models.Order) error
	NotifyOrderCancelled(order *models.Order) error
}

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
	apiBase     string
	client      *http.Client
	log         logger.Logger
}

// NewTelegramService creates a new TelegramService. Sending is a no-op
// while the bot token or admin chat is not configured.
func NewTelegramService(botToken, adminChatID string, log logger.Logger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		apiBase:     telegramAPIBase,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		s.log.Debug("telegram bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)

	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// FormatPrice formats amount in rupees with thousand separators.
func FormatPrice(amount float64) string {
	str := fmt.Sprintf("%d", int64(amount))

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return "₹" + result.String()
}

// NotifyNewOrder sends notification about new order to admin chat.
func (s *TelegramService) NotifyNewOrder(order *models.Order) error {
	pickup := order.PickupDate.Format("02 Jan 2006")
	if order.PickupTime != "" {
		pickup += " " + order.PickupTime
	}

	message := fmt.Sprintf(`<b>🧺 NEW ORDER</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Service:</b> %s
<b>Pickup:</b> %s
<b>Address:</b> %s
<b>Amount:</b> %s`,
		order.ID,
		displayName(order.CustomerName),
		order.CustomerPhone,
		order.ServiceName,
		pickup,
		order.Address,
		FormatPrice(order.Amount),
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyOrderCancelled sends notification about a cancelled order.
func (s *TelegramService) NotifyOrderCancelled(order *models.Order) error {
	message := fmt.Sprintf(`<b>❌ ORDER CANCELLED</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Service:</b> %s`,
		order.ID,
		displayName(order.CustomerName),
		order.CustomerPhone,
		order.ServiceName,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

func displayName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}
