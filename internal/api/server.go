package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/selune/lunora/internal/service"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	cycleService       service.CycleServiceI
	forecastService    service.ForecastServiceI
	adherenceService   service.AdherenceServiceI
	challengeService   service.ChallengeServiceI
	achievementService service.AchievementServiceI
	reminderService    service.ReminderServiceI
	coachService       service.CoachServiceI
	jwtService         JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	CycleService       service.CycleServiceI
	ForecastService    service.ForecastServiceI
	AdherenceService   service.AdherenceServiceI
	ChallengeService   service.ChallengeServiceI
	AchievementService service.AchievementServiceI
	ReminderService    service.ReminderServiceI
	CoachService       service.CoachServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		cycleService:       servicesOptions.CycleService,
		forecastService:    servicesOptions.ForecastService,
		adherenceService:   servicesOptions.AdherenceService,
		challengeService:   servicesOptions.ChallengeService,
		achievementService: servicesOptions.AchievementService,
		reminderService:    servicesOptions.ReminderService,
		coachService:       servicesOptions.CoachService,
		jwtService:         servicesOptions.JwtService,
	}
}

func (s *Server) Run(address string) error {
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Put("/baseline", s.SaveBaseline)
			r.Get("/baseline", s.GetBaseline)
			r.Post("/forecast/rebuild", s.RebuildForecast)
			r.Get("/forecast", s.GetForecast)
			r.Post("/adherence", s.MarkTaken)
			r.Get("/adherence", s.GetAdherenceRange)
			r.Post("/events", s.AddCycleEvent)
			r.Delete("/events/last", s.UndoLastCycleEvent)
			r.Get("/challenges", s.GetChallenges)
			r.Post("/challenges", s.CreateCustomGoal)
			r.Put("/challenges/{id}", s.UpdateCustomGoal)
			r.Delete("/challenges/{id}", s.DeleteCustomGoal)
			r.Get("/achievements", s.GetAchievements)
			r.Get("/coach/context", s.GetCoachContext)
			r.Put("/reminder", s.SaveReminder)
			r.Get("/internal/reminders/due", s.GetDueReminders)
		})
	})
	return http.ListenAndServe(address, s.mx)
}
