package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	Host     string
	Port     string
	Usuario  string
	Password string
	Nombre   string
	SSLMode  string
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLBase   string
}

// FuenteRSS identifica una fuente de noticias externa.
type FuenteRSS struct {
	Clave  string
	Titulo string
	URL    string
}

type Config struct {
	ServerPort     int
	Entorno        string
	LogLevel       string
	DB             DB
	MinIO          MinIO
	JWTSecret      string
	SesionTTL      time.Duration
	MaxUploadSize  int64
	FuentesRSS     []FuenteRSS
	WebhookSoporte string
}

func getEnv(clave, porDefecto string) string {
	if valor, ok := os.LookupEnv(clave); ok {
		return valor
	}
	return porDefecto
}

func getEnvInt(clave string, porDefecto int) int {
	if valor := os.Getenv(clave); valor != "" {
		if n, err := strconv.Atoi(valor); err == nil {
			return n
		}
	}
	return porDefecto
}

func getEnvBool(clave string, porDefecto bool) bool {
	if valor, ok := os.LookupEnv(clave); ok {
		if b, err := strconv.ParseBool(valor); err == nil {
			return b
		}
	}
	return porDefecto
}

func getEnvDuration(clave string, porDefecto time.Duration) time.Duration {
	if valor := os.Getenv(clave); valor != "" {
		if d, err := time.ParseDuration(valor); err == nil {
			return d
		}
	}
	return porDefecto
}

func cargarDB() DB {
	return DB{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Usuario:  getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Nombre:   getEnv("DB_NAME", "club_almacen"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func cargarMinIO() MinIO {
	return MinIO{
		Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		Bucket:    getEnv("MINIO_BUCKET", "club-almacen"),
		UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		URLBase:   getEnv("MINIO_URL_BASE", "http://localhost:9000"),
	}
}

// cargarFuentesRSS lee RSS_FEEDS con el formato clave|titulo|url;clave|titulo|url.
// Sin configuración se usa la fuente estable de Google News para pymes chilenas.
func cargarFuentesRSS() []FuenteRSS {
	crudo := getEnv("RSS_FEEDS", "")
	if crudo == "" {
		return []FuenteRSS{
			{
				Clave:  "ESTABLE",
				Titulo: "Noticias Generales de Economía Chilena",
				URL:    "https://news.google.com/rss/search?q=negocios+chile+pymes&hl=es&gl=CL&ceid=CL:es",
			},
		}
	}

	var fuentes []FuenteRSS
	for _, parte := range strings.Split(crudo, ";") {
		campos := strings.SplitN(parte, "|", 3)
		if len(campos) != 3 {
			continue
		}
		fuentes = append(fuentes, FuenteRSS{
			Clave:  strings.TrimSpace(campos[0]),
			Titulo: strings.TrimSpace(campos[1]),
			URL:    strings.TrimSpace(campos[2]),
		})
	}
	return fuentes
}

// Cargar lee el .env si existe y arma la configuración completa del servicio.
func Cargar() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: no se encontró archivo .env, se usan variables de entorno")
	}

	return &Config{
		ServerPort:     getEnvInt("SERVER_PORT", 8080),
		Entorno:        getEnv("ENTORNO", "desarrollo"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DB:             cargarDB(),
		MinIO:          cargarMinIO(),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		SesionTTL:      getEnvDuration("SESION_TTL", 24*time.Hour),
		MaxUploadSize:  int64(getEnvInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
		FuentesRSS:     cargarFuentesRSS(),
		WebhookSoporte: getEnv("SOPORTE_WEBHOOK_URL", ""),
	}
}
