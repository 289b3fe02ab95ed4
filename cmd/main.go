package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/administrador"
	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/aviso"
	"github.com/clubalmacen/api-comunidad/internal/beneficio"
	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"github.com/clubalmacen/api-comunidad/internal/config"
	"github.com/clubalmacen/api-comunidad/internal/contacto"
	"github.com/clubalmacen/api-comunidad/internal/foro"
	"github.com/clubalmacen/api-comunidad/internal/logger"
	"github.com/clubalmacen/api-comunidad/internal/middleware"
	"github.com/clubalmacen/api-comunidad/internal/noticias"
	"github.com/clubalmacen/api-comunidad/internal/notificacion"
	"github.com/clubalmacen/api-comunidad/internal/producto"
	"github.com/clubalmacen/api-comunidad/internal/promocion"
	"github.com/clubalmacen/api-comunidad/internal/proveedor"
	"github.com/clubalmacen/api-comunidad/internal/soporte"
	"github.com/clubalmacen/api-comunidad/internal/storage"
	"github.com/clubalmacen/api-comunidad/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Cargar()

	log, err := logger.Init(cfg.LogLevel, cfg.Entorno)
	if err != nil {
		panic(fmt.Sprintf("error al inicializar el logger: %v", err))
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET no está configurado")
	}

	database, err := db.Conectar(cfg.DB)
	if err != nil {
		log.Fatal("error al conectar a la base de datos", zap.Error(err))
	}

	if err := database.AutoMigrate(
		&comerciante.Comerciante{},
		&foro.Publicacion{},
		&foro.Comentario{},
		&foro.Like{},
		&beneficio.Beneficio{},
		&proveedor.CategoriaProveedor{},
		&proveedor.Proveedor{},
		&producto.Producto{},
		&promocion.Promocion{},
		&contacto.SolicitudContacto{},
		&aviso.Aviso{},
		&aviso.AvisoLeido{},
		&soporte.TicketSoporte{},
	); err != nil {
		log.Fatal("error en AutoMigrate", zap.Error(err))
	}

	ctx := context.Background()
	almacen, err := storage.NewClienteMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal("error al inicializar el almacén de archivos", zap.Error(err))
	}

	emisor := auth.NewEmisor(cfg.JWTSecret, cfg.SesionTTL)
	agregador := noticias.NewAgregador(cfg.FuentesRSS, log)

	// Repositorios compartidos entre paquetes.
	proveedorRepo := proveedor.NewRepository()
	contactoRepo := contacto.NewRepository()

	comercianteHandler := comerciante.NewHandler(database, almacen, emisor, log, cfg.SesionTTL, cfg.MaxUploadSize)
	foroHandler := foro.NewHandler(database, almacen, agregador, log, cfg.MaxUploadSize)
	noticiasHandler := noticias.NewHandler(agregador)
	beneficioHandler := beneficio.NewHandler(database)
	proveedorHandler := proveedor.NewHandler(database, contactoRepo, almacen, log, cfg.MaxUploadSize)
	productoHandler := producto.NewHandler(database, proveedorRepo, log)
	promocionHandler := promocion.NewHandler(database, proveedorRepo, log)
	contactoHandler := contacto.NewHandler(database, log)
	avisoHandler := aviso.NewHandler(database, log)
	soporteHandler := soporte.NewHandler(database, log)
	soporteHandler.Notificador = notificacion.NewWebhook(cfg.WebhookSoporte, log)
	adminHandler := administrador.NewHandler(database, log)

	r := mux.NewRouter()
	r.Use(middleware.Logging(log))
	r.Use(middleware.NewHTTPMetrics("api-comunidad").Middleware)
	r.Use(emisor.Identificacion)

	r.Handle("/metrics", middleware.Handler()).Methods("GET")

	// Sesión
	r.HandleFunc("/registro", comercianteHandler.Registro).Methods("POST")
	r.HandleFunc("/login", comercianteHandler.Login).Methods("POST")
	r.HandleFunc("/logout", comercianteHandler.Logout).Methods("POST")

	// Perfil del comerciante
	perfil := r.PathPrefix("/perfil").Subrouter()
	perfil.Use(auth.RequireAutenticado)
	perfil.HandleFunc("", comercianteHandler.Perfil).Methods("GET")
	perfil.HandleFunc("/contacto", comercianteHandler.ActualizarContacto).Methods("PUT")
	perfil.HandleFunc("/negocio", comercianteHandler.ActualizarNegocio).Methods("PUT")
	perfil.HandleFunc("/intereses", comercianteHandler.ActualizarIntereses).Methods("PUT")
	perfil.HandleFunc("/foto", comercianteHandler.SubirFotoPerfil).Methods("PUT")

	// Foro: la lista y el detalle son públicos, el resto exige sesión.
	r.HandleFunc("/foro", foroHandler.Listar).Methods("GET")
	r.HandleFunc("/foro/publicaciones/{id}", foroHandler.Detalle).Methods("GET")

	foroPriv := r.PathPrefix("/foro").Subrouter()
	foroPriv.Use(auth.RequireAutenticado)
	foroPriv.HandleFunc("/publicaciones", foroHandler.CrearPublicacion).Methods("POST")
	foroPriv.HandleFunc("/imagenes", foroHandler.SubirImagen).Methods("POST")
	foroPriv.HandleFunc("/publicaciones/{id}/comentarios", foroHandler.Comentar).Methods("POST")
	foroPriv.HandleFunc("/publicaciones/{id}/like", foroHandler.ToggleLike).Methods("POST")
	foroPriv.HandleFunc("/publicaciones/{id}", foroHandler.EliminarPublicacion).Methods("DELETE")
	foroPriv.HandleFunc("/comentarios/{id}", foroHandler.EliminarComentario).Methods("DELETE")

	// Noticias exige sesión; beneficios es de lectura pública.
	r.Handle("/noticias", auth.RequireAutenticado(http.HandlerFunc(noticiasHandler.Listar))).Methods("GET")
	r.HandleFunc("/beneficios", beneficioHandler.Listar).Methods("GET")

	// Directorio de proveedores. Las rutas fijas van antes que {id}.
	r.HandleFunc("/proveedores", proveedorHandler.Directorio).Methods("GET")
	r.Handle("/proveedores", auth.RequireAutenticado(http.HandlerFunc(proveedorHandler.CrearPerfil))).Methods("POST")
	r.HandleFunc("/ubicaciones/comunas", proveedorHandler.Comunas).Methods("GET")

	provPriv := r.PathPrefix("/proveedores").Subrouter()
	provPriv.Use(auth.RequireAutenticado)
	provPriv.HandleFunc("/perfil", proveedorHandler.Dashboard).Methods("GET")
	provPriv.HandleFunc("/perfil", proveedorHandler.ActualizarPerfil).Methods("PUT")
	provPriv.HandleFunc("/configuracion", proveedorHandler.Configuracion).Methods("PUT")
	provPriv.HandleFunc("/foto", proveedorHandler.SubirLogo).Methods("POST")
	provPriv.HandleFunc("/foto", proveedorHandler.EliminarLogo).Methods("DELETE")

	provPriv.HandleFunc("/productos", productoHandler.Listar).Methods("GET")
	provPriv.HandleFunc("/productos", productoHandler.Crear).Methods("POST")
	provPriv.HandleFunc("/productos/{id}", productoHandler.Actualizar).Methods("PUT")
	provPriv.HandleFunc("/productos/{id}", productoHandler.Eliminar).Methods("DELETE")
	provPriv.HandleFunc("/productos/{id}/destacado", productoHandler.ToggleDestacado).Methods("POST")

	provPriv.HandleFunc("/promociones", promocionHandler.Listar).Methods("GET")
	provPriv.HandleFunc("/promociones", promocionHandler.Crear).Methods("POST")
	provPriv.HandleFunc("/promociones/{id}", promocionHandler.Actualizar).Methods("PUT")
	provPriv.HandleFunc("/promociones/{id}", promocionHandler.Eliminar).Methods("DELETE")

	provPriv.HandleFunc("/solicitudes", contactoHandler.Crear).Methods("POST")
	provPriv.HandleFunc("/solicitudes", contactoHandler.Listar).Methods("GET")

	r.HandleFunc("/proveedores/{id}", proveedorHandler.Detalle).Methods("GET")

	// Respuestas a solicitudes de contacto
	solicitudes := r.PathPrefix("/solicitudes").Subrouter()
	solicitudes.Use(auth.RequireAutenticado)
	solicitudes.HandleFunc("/enviadas", contactoHandler.MisSolicitudes).Methods("GET")
	solicitudes.HandleFunc("/{id}/aceptar", contactoHandler.Aceptar).Methods("POST")
	solicitudes.HandleFunc("/{id}/rechazar", contactoHandler.Rechazar).Methods("POST")
	solicitudes.HandleFunc("/{id}/cancelar", contactoHandler.Cancelar).Methods("POST")

	// Avisos
	avisos := r.PathPrefix("/avisos").Subrouter()
	avisos.Use(auth.RequireAutenticado)
	avisos.HandleFunc("", avisoHandler.Listar).Methods("GET")
	avisos.HandleFunc("/no-leidos", avisoHandler.NoLeidos).Methods("GET")

	// Soporte: los comerciantes abren y ven sus tickets; el panel es del equipo técnico.
	sop := r.PathPrefix("/soporte").Subrouter()
	sop.Use(auth.RequireAutenticado)
	sop.HandleFunc("/tickets", soporteHandler.Crear).Methods("POST")
	sop.HandleFunc("/tickets", soporteHandler.MisTickets).Methods("GET")

	tecnico := r.PathPrefix("/soporte").Subrouter()
	tecnico.Use(auth.RequireTecnico)
	tecnico.HandleFunc("/panel", soporteHandler.Panel).Methods("GET")
	tecnico.HandleFunc("/tickets/{id}/accion", soporteHandler.Accion).Methods("POST")

	// Back-office
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.RequireAdmin)
	admin.HandleFunc("/comerciantes", adminHandler.ListarComerciantes).Methods("GET")
	admin.HandleFunc("/comerciantes", adminHandler.CrearComerciante).Methods("POST")
	admin.HandleFunc("/comerciantes/{id}", adminHandler.EditarComerciante).Methods("PUT")
	admin.HandleFunc("/comerciantes/{id}", adminHandler.EliminarComerciante).Methods("DELETE")
	admin.HandleFunc("/publicaciones", adminHandler.ListarPublicaciones).Methods("GET")
	admin.HandleFunc("/publicaciones/{id}", adminHandler.EditarPublicacion).Methods("PUT")
	admin.HandleFunc("/publicaciones/{id}", adminHandler.EliminarPublicacion).Methods("DELETE")
	admin.HandleFunc("/beneficios", adminHandler.ListarBeneficios).Methods("GET")
	admin.HandleFunc("/beneficios", adminHandler.CrearBeneficio).Methods("POST")
	admin.HandleFunc("/beneficios/{id}", adminHandler.EditarBeneficio).Methods("PUT")
	admin.HandleFunc("/beneficios/{id}", adminHandler.EliminarBeneficio).Methods("DELETE")
	admin.HandleFunc("/avisos", adminHandler.ListarAvisos).Methods("GET")
	admin.HandleFunc("/avisos", adminHandler.CrearAviso).Methods("POST")
	admin.HandleFunc("/avisos/{id}", adminHandler.EditarAviso).Methods("PUT")
	admin.HandleFunc("/avisos/{id}", adminHandler.EliminarAviso).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	servidor := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("servidor iniciado", zap.Int("puerto", cfg.ServerPort), zap.String("entorno", cfg.Entorno))
	if err := servidor.ListenAndServe(); err != nil {
		log.Fatal("el servidor terminó con error", zap.Error(err))
	}
}
