// @title Lunora API
// @description API for the cycle & training-wellness tracker "Lunora"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/selune/lunora/internal/api"
	"github.com/selune/lunora/internal/repository"
	"github.com/selune/lunora/internal/service"
	"github.com/selune/lunora/pkg/config"
	jwtservice "github.com/selune/lunora/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}

	usersRepo := repository.NewUsersRepo(&dbCfg)
	baselinesRepo := repository.NewBaselinesRepo(&dbCfg)
	eventsRepo := repository.NewCycleEventsRepo(&dbCfg)
	forecastsRepo := repository.NewForecastsRepo(&dbCfg)
	adherenceRepo := repository.NewAdherenceRepo(&dbCfg)
	challengesRepo := repository.NewChallengesRepo(&dbCfg)
	achievementsRepo := repository.NewAchievementsRepo(&dbCfg)
	remindersRepo := repository.NewRemindersRepo(&dbCfg)

	forecastService := service.NewForecastService(baselinesRepo, eventsRepo, forecastsRepo)
	challengeService := service.NewChallengeService(challengesRepo, adherenceRepo)
	achievementService := service.NewAchievementService(achievementsRepo, adherenceRepo)

	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo),
		CycleService:       service.NewCycleService(baselinesRepo, eventsRepo, forecastService),
		ForecastService:    forecastService,
		AdherenceService:   service.NewAdherenceService(adherenceRepo, challengeService, achievementService),
		ChallengeService:   challengeService,
		AchievementService: achievementService,
		ReminderService:    service.NewReminderService(remindersRepo),
		CoachService:       service.NewCoachService(baselinesRepo, forecastsRepo, adherenceRepo, challengesRepo, achievementsRepo),
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
