package authv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"authify/backend/internal/api/codec"
)

const AuthService_ServiceName = "authify.v1.AuthService"

const (
	AuthService_Register_FullMethodName        = "/authify.v1.AuthService/Register"
	AuthService_Login_FullMethodName           = "/authify.v1.AuthService/Login"
	AuthService_IsAuthenticated_FullMethodName = "/authify.v1.AuthService/IsAuthenticated"
	AuthService_SendVerifyOTP_FullMethodName   = "/authify.v1.AuthService/SendVerifyOTP"
	AuthService_VerifyEmail_FullMethodName     = "/authify.v1.AuthService/VerifyEmail"
	AuthService_SendResetOTP_FullMethodName    = "/authify.v1.AuthService/SendResetOTP"
	AuthService_ResetPassword_FullMethodName   = "/authify.v1.AuthService/ResetPassword"
	AuthService_Logout_FullMethodName          = "/authify.v1.AuthService/Logout"
	AuthService_GetProfile_FullMethodName      = "/authify.v1.AuthService/GetProfile"
)

// AuthServiceServer is the server API for AuthService.
// Implementations must embed UnimplementedAuthServiceServer.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	IsAuthenticated(context.Context, *IsAuthenticatedRequest) (*IsAuthenticatedResponse, error)
	SendVerifyOTP(context.Context, *SendVerifyOTPRequest) (*SendVerifyOTPResponse, error)
	VerifyEmail(context.Context, *VerifyEmailRequest) (*VerifyEmailResponse, error)
	SendResetOTP(context.Context, *SendResetOTPRequest) (*SendResetOTPResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*ResetPasswordResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	mustEmbedUnimplementedAuthServiceServer()
}

// UnimplementedAuthServiceServer answers every method with codes.Unimplemented.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuthServiceServer) IsAuthenticated(context.Context, *IsAuthenticatedRequest) (*IsAuthenticatedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IsAuthenticated not implemented")
}
func (UnimplementedAuthServiceServer) SendVerifyOTP(context.Context, *SendVerifyOTPRequest) (*SendVerifyOTPResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendVerifyOTP not implemented")
}
func (UnimplementedAuthServiceServer) VerifyEmail(context.Context, *VerifyEmailRequest) (*VerifyEmailResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyEmail not implemented")
}
func (UnimplementedAuthServiceServer) SendResetOTP(context.Context, *SendResetOTPRequest) (*SendResetOTPResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendResetOTP not implemented")
}
func (UnimplementedAuthServiceServer) ResetPassword(context.Context, *ResetPasswordRequest) (*ResetPasswordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetPassword not implemented")
}
func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedAuthServiceServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedAuthServiceServer) mustEmbedUnimplementedAuthServiceServer() {}

// RegisterAuthServiceServer registers srv on s.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler, running the server interceptor chain.
func unary[Req, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthService_ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unary(AuthService_Login_FullMethodName, AuthServiceServer.Login)},
		{MethodName: "IsAuthenticated", Handler: unary(AuthService_IsAuthenticated_FullMethodName, AuthServiceServer.IsAuthenticated)},
		{MethodName: "SendVerifyOTP", Handler: unary(AuthService_SendVerifyOTP_FullMethodName, AuthServiceServer.SendVerifyOTP)},
		{MethodName: "VerifyEmail", Handler: unary(AuthService_VerifyEmail_FullMethodName, AuthServiceServer.VerifyEmail)},
		{MethodName: "SendResetOTP", Handler: unary(AuthService_SendResetOTP_FullMethodName, AuthServiceServer.SendResetOTP)},
		{MethodName: "ResetPassword", Handler: unary(AuthService_ResetPassword_FullMethodName, AuthServiceServer.ResetPassword)},
		{MethodName: "Logout", Handler: unary(AuthService_Logout_FullMethodName, AuthServiceServer.Logout)},
		{MethodName: "GetProfile", Handler: unary(AuthService_GetProfile_FullMethodName, AuthServiceServer.GetProfile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authify/v1/auth",
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	IsAuthenticated(ctx context.Context, in *IsAuthenticatedRequest, opts ...grpc.CallOption) (*IsAuthenticatedResponse, error)
	SendVerifyOTP(ctx context.Context, in *SendVerifyOTPRequest, opts ...grpc.CallOption) (*SendVerifyOTPResponse, error)
	VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*VerifyEmailResponse, error)
	SendResetOTP(ctx context.Context, in *SendResetOTPRequest, opts ...grpc.CallOption) (*SendResetOTPResponse, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*ResetPasswordResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient returns a client that sends JSON-encoded requests over cc.
func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts)
}

func (c *authServiceClient) IsAuthenticated(ctx context.Context, in *IsAuthenticatedRequest, opts ...grpc.CallOption) (*IsAuthenticatedResponse, error) {
	return invoke[IsAuthenticatedResponse](ctx, c.cc, AuthService_IsAuthenticated_FullMethodName, in, opts)
}

func (c *authServiceClient) SendVerifyOTP(ctx context.Context, in *SendVerifyOTPRequest, opts ...grpc.CallOption) (*SendVerifyOTPResponse, error) {
	return invoke[SendVerifyOTPResponse](ctx, c.cc, AuthService_SendVerifyOTP_FullMethodName, in, opts)
}

func (c *authServiceClient) VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*VerifyEmailResponse, error) {
	return invoke[VerifyEmailResponse](ctx, c.cc, AuthService_VerifyEmail_FullMethodName, in, opts)
}

func (c *authServiceClient) SendResetOTP(ctx context.Context, in *SendResetOTPRequest, opts ...grpc.CallOption) (*SendResetOTPResponse, error) {
	return invoke[SendResetOTPResponse](ctx, c.cc, AuthService_SendResetOTP_FullMethodName, in, opts)
}

func (c *authServiceClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*ResetPasswordResponse, error) {
	return invoke[ResetPasswordResponse](ctx, c.cc, AuthService_ResetPassword_FullMethodName, in, opts)
}

func (c *authServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, AuthService_Logout_FullMethodName, in, opts)
}

func (c *authServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, AuthService_GetProfile_FullMethodName, in, opts)
}
