package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/clubalmacen/api-comunidad/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Almacen abstrae el depósito de archivos subidos (fotos de perfil, imágenes de
// publicaciones, productos y promociones).
type Almacen interface {
	Subir(ctx context.Context, carpeta, nombreArchivo string, archivo io.Reader, tamano int64) (string, error)
	Eliminar(ctx context.Context, url string) error
}

type ClienteMinIO struct {
	cliente *minio.Client
	cfg     config.MinIO
}

// NewClienteMinIO conecta a MinIO y asegura que el bucket exista.
func NewClienteMinIO(ctx context.Context, cfg config.MinIO) (*ClienteMinIO, error) {
	cliente, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error al inicializar MinIO: %w", err)
	}

	existe, err := cliente.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("error al verificar bucket: %w", err)
	}
	if !existe {
		if err := cliente.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error al crear bucket: %w", err)
		}
	}

	return &ClienteMinIO{cliente: cliente, cfg: cfg}, nil
}

// Subir guarda el archivo bajo carpeta/uuid.ext y devuelve la URL pública.
func (c *ClienteMinIO) Subir(ctx context.Context, carpeta, nombreArchivo string, archivo io.Reader, tamano int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(nombreArchivo))
	if ext == "" {
		ext = ".jpg"
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objeto := fmt.Sprintf("%s/%s%s", carpeta, uuid.New().String(), ext)

	_, err := c.cliente.PutObject(ctx, c.cfg.Bucket, objeto, archivo, tamano, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"nombre-original": nombreArchivo},
	})
	if err != nil {
		return "", fmt.Errorf("error al subir archivo a MinIO: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", c.cfg.URLBase, c.cfg.Bucket, objeto), nil
}

// Eliminar borra el objeto referenciado por una URL generada por Subir.
func (c *ClienteMinIO) Eliminar(ctx context.Context, url string) error {
	prefijo := fmt.Sprintf("%s/%s/", c.cfg.URLBase, c.cfg.Bucket)
	objeto := strings.TrimPrefix(url, prefijo)
	if objeto == url || objeto == "" {
		return fmt.Errorf("URL fuera del bucket: %s", url)
	}

	if err := c.cliente.RemoveObject(ctx, c.cfg.Bucket, objeto, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("error al eliminar archivo de MinIO: %w", err)
	}
	return nil
}
