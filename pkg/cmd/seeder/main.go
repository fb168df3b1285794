package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

type seededAccount struct {
	ID    uint
	Token string
}

type client struct {
	endpoint string
	http     *http.Client
}

func (v *client) do(method, path, token string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, v.endpoint+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, string(raw))
	}
	if out != nil {
		return jsoniter.Unmarshal(raw, out)
	}
	return nil
}

func username(faker *gofakeit.Faker, idx int) string {
	name := nonAlphanumeric.ReplaceAllString(faker.Username(), "")
	if len(name) > 24 {
		name = name[:24]
	}
	return strings.ToLower(fmt.Sprintf("%s%d", name, idx))
}

func main() {
	viper.SetEnvPrefix("CIRCLE_SEEDER")
	viper.AutomaticEnv()
	viper.SetDefault("endpoint", "http://localhost:8000/api")
	viper.SetDefault("accounts", 10)
	viper.SetDefault("posts", 3)
	viper.SetDefault("seed", time.Now().UnixNano())

	faker := gofakeit.New(viper.GetInt64("seed"))
	api := &client{
		endpoint: strings.TrimSuffix(viper.GetString("endpoint"), "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}

	var accounts []seededAccount
	for idx := 0; idx < viper.GetInt("accounts"); idx++ {
		var resp struct {
			User struct {
				ID uint `json:"id"`
			} `json:"user"`
			Token string `json:"token"`
		}
		err := api.do(http.MethodPost, "/users/signup", "", map[string]any{
			"name":     username(faker, idx),
			"email":    fmt.Sprintf("%d.%s", idx, faker.Email()),
			"nick":     faker.Name(),
			"password": faker.Password(true, true, true, false, false, 12),
		}, &resp)
		if err != nil {
			log.Error().Err(err).Int("index", idx).Msg("An error occurred when seeding account...")
			continue
		}
		accounts = append(accounts, seededAccount{ID: resp.User.ID, Token: resp.Token})
	}
	log.Info().Int("count", len(accounts)).Msg("Accounts seeded.")

	// Each account befriends the next one, which keeps every feed non-empty.
	for idx := 0; idx+1 < len(accounts); idx++ {
		requester, receiver := accounts[idx], accounts[idx+1]
		if err := api.do(http.MethodPost, "/users/friend-request", requester.Token, map[string]any{
			"receiver_id": receiver.ID,
		}, nil); err != nil {
			log.Error().Err(err).Msg("An error occurred when sending friend request...")
			continue
		}
		if err := api.do(http.MethodPost, "/users/accept-friend-request", receiver.Token, map[string]any{
			"requester_id": requester.ID,
		}, nil); err != nil {
			log.Error().Err(err).Msg("An error occurred when accepting friend request...")
		}
	}

	var posts []uint
	for _, account := range accounts {
		for idx := 0; idx < viper.GetInt("posts"); idx++ {
			var post struct {
				ID uint `json:"id"`
			}
			if err := api.do(http.MethodPost, "/posts", account.Token, map[string]any{
				"content": faker.Paragraph(1, 3, 12, " "),
			}, &post); err != nil {
				log.Error().Err(err).Msg("An error occurred when seeding post...")
				continue
			}
			posts = append(posts, post.ID)
		}
	}
	log.Info().Int("count", len(posts)).Msg("Posts seeded.")

	if len(posts) == 0 {
		return
	}
	random := rand.New(rand.NewSource(viper.GetInt64("seed")))
	for _, account := range accounts {
		target := posts[random.Intn(len(posts))]
		if err := api.do(http.MethodPost, fmt.Sprintf("/posts/%d/comment", target), account.Token, map[string]any{
			"content": faker.Sentence(8),
		}, nil); err != nil {
			log.Error().Err(err).Msg("An error occurred when seeding comment...")
		}
	}

	log.Info().Msg("Seeding accomplished.")
}
